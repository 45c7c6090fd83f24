package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-converter/internal/artifacts"
	"github.com/jonathan/resume-converter/internal/config"
	"github.com/jonathan/resume-converter/internal/db"
	"github.com/jonathan/resume-converter/internal/export"
	"github.com/jonathan/resume-converter/internal/ingestion"
	"github.com/jonathan/resume-converter/internal/llm"
	"github.com/jonathan/resume-converter/internal/observability"
	"github.com/jonathan/resume-converter/internal/pipeline"
	"github.com/jonathan/resume-converter/internal/rendering"
)

// convertFlags holds the raw flag values of one command instance.
type convertFlags struct {
	configPath    string
	input         string
	output        string
	apiKey        string
	provider      string
	model         string
	stripTags     bool
	strictPrompts bool
	databaseURL   string
	exportPDF     bool
	verbose       bool
}

func newRootCmd() *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "resume_convert",
		Short: "Convert a PDF resume into a formatted resume and cover letter",
		Long: `Extracts the text of a PDF resume, asks a language model to reformat it into
Markdown, then asks the model for a cover letter based on the formatted resume.

Every intermediate text is written to the output directory as <name>.md and
<name>.html: resume_raw, resume_prompt, resume, cover_letter_prompt, cover_letter.

Configuration can be loaded from a JSON or YAML file using --config. Command-line
arguments override config file values.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, f)
		},
	}

	// Config file flag (processed first)
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Path to the source PDF resume")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Existing directory that receives the generated files")
	cmd.Flags().StringVar(&f.apiKey, "apikey", "", "Completion API key (defaults to OPENAI_API_KEY, GEMINI_API_KEY or ANTHROPIC_API_KEY for the provider)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Completion provider: openai, gemini or anthropic (default openai)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Model name (defaults per provider)")
	cmd.Flags().BoolVar(&f.stripTags, "strip-tags", false, "Keep only the content inside <response> tags")
	cmd.Flags().BoolVar(&f.strictPrompts, "strict-prompts", false, "Fail when resume text contains prompt delimiter tags")
	cmd.Flags().BoolVar(&f.exportPDF, "pdf", false, "Also print resume.html and cover_letter.html to PDF (requires Chrome)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL for artifact persistence
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	return cmd
}

// resolveConfig merges the config file, changed flags and environment into a validated Config.
func resolveConfig(cmd *cobra.Command, f *convertFlags) (config.Config, error) {
	// Step 1: Load config file if provided
	var fileCfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	cfg := fileCfg
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = f.input
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("apikey") {
		cfg.APIKey = f.apiKey
	}
	if flags.Changed("provider") {
		cfg.Provider = f.provider
	}
	if flags.Changed("model") {
		cfg.Model = f.model
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if flags.Changed("strip-tags") {
		cfg.StripTags = f.stripTags
	}
	if flags.Changed("strict-prompts") {
		cfg.StrictPrompts = f.strictPrompts
	}
	if flags.Changed("pdf") {
		cfg.ExportPDF = f.exportPDF
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	// Step 3: Apply defaults for unset values
	temperature := float32(llm.DefaultTemperature)
	cfg = cfg.MergeWithDefaults(config.Config{
		Temperature: &temperature,
		MaxTokens:   llm.DefaultMaxTokens,
	})

	// Step 4: Validate required fields before anything is written
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	// Step 5: Environment fallbacks
	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Provider = string(provider)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(provider.APIKeyEnv())
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runConvert(cmd *cobra.Command, f *convertFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose).With("run_id", runID.String())
	out := cmd.OutOrStdout()

	llmCfg := &llm.Config{
		Provider:    llm.Provider(cfg.Provider),
		Model:       cfg.Model,
		Temperature: *cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		BaseURL:     cfg.BaseURL,
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}
	defer func() { _ = client.Close() }()
	logger.Debug("completion client ready", "provider", cfg.Provider, "model", client.Model())

	renderer := rendering.NewMarkdown()
	writer := artifacts.NewFileWriter(cfg.Output, renderer)
	sink := pipeline.MultiSink{writer}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := database.CreateRun(ctx, &db.RunInput{ID: runID, SourcePath: cfg.Input, Model: client.Model()}); err != nil {
			return err
		}
		sink = append(sink, db.NewArtifactSink(ctx, database, runID, renderer))
		logger.Debug("persisting artifacts to database")
	}

	p := pipeline.New(ingestion.PDFExtractor{}, client, sink, pipeline.Options{
		RunID:         runID,
		StripTags:     cfg.StripTags,
		StrictPrompts: cfg.StrictPrompts,
		Progress:      out,
		Logger:        logger,
	})
	result, runErr := p.Run(ctx, cfg.Input)

	if database != nil {
		if err := database.CompleteRun(ctx, runID, runErr); err != nil {
			logger.Error("failed to record run status", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	if cfg.ExportPDF {
		written, err := export.NewExporter(logger).Export(ctx,
			writer.HTMLPath(artifacts.Resume),
			writer.HTMLPath(artifacts.CoverLetter),
		)
		if err != nil {
			return err
		}
		for _, path := range written {
			logger.Info("exported PDF", "path", path)
		}
	}

	if cfg.Verbose {
		printVerbose(observability.NewPrinter(out), renderer, result, logger)
	}

	return nil
}

// printVerbose prints each artifact, the resume outline and a run summary.
func printVerbose(printer *observability.Printer, renderer rendering.Renderer, result *pipeline.Result, logger *slog.Logger) {
	texts := map[string]string{
		artifacts.ResumeRaw:         result.RawText,
		artifacts.ResumePrompt:      result.ResumePrompt,
		artifacts.Resume:            result.Resume,
		artifacts.CoverLetterPrompt: result.CoverLetterPrompt,
		artifacts.CoverLetter:       result.CoverLetter,
	}
	for _, name := range artifacts.Names {
		printer.PrintArtifact(name, texts[name])
	}

	html, err := renderer.Render(result.Resume)
	if err == nil {
		var headings []rendering.Heading
		headings, err = rendering.Outline(html)
		printer.PrintOutline(artifacts.Resume, headings)
	}
	if err != nil {
		logger.Warn("failed to outline resume", "error", err)
	}

	printer.PrintRunSummary(result)
}
