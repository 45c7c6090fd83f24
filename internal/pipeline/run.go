// Package pipeline orchestrates the resume conversion: extract, reformat, write a cover letter.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jonathan/resume-converter/internal/artifacts"
	"github.com/jonathan/resume-converter/internal/ingestion"
	"github.com/jonathan/resume-converter/internal/llm"
	"github.com/jonathan/resume-converter/internal/prompts"
)

// Step names used in progress events and errors.
const (
	StepExtract     = "extract"
	StepResume      = "resume"
	StepCoverLetter = "cover_letter"
)

// Progress messages, one per step.
const (
	MsgExtracting       = "Extracting resume"
	MsgGeneratingResume = "Generating formatted resume"
	MsgGeneratingLetter = "Generating cover letter"
)

// Extractor turns the input document into plain text.
type Extractor interface {
	ExtractText(path string) (string, *ingestion.Metadata, error)
}

// Completer sends a prompt to a completion model. llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Sink persists a named artifact.
type Sink interface {
	Write(name, text string) error
}

// MultiSink writes to each sink in order and stops at the first error.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(name, text string) error {
	for _, sink := range m {
		if err := sink.Write(name, text); err != nil {
			return err
		}
	}
	return nil
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options controls optional pipeline behavior.
type Options struct {
	// RunID tags log lines and sinks; a random ID is used when zero.
	RunID uuid.UUID
	// StripTags persists only the content inside <response> tags and feeds the
	// stripped resume into the cover-letter prompt.
	StripTags bool
	// StrictPrompts fails the run when embedded text contains prompt delimiters
	// instead of logging a warning.
	StrictPrompts bool
	// Progress receives one plain line per step.
	Progress io.Writer
	// OnProgress, when set, is called alongside Progress.
	OnProgress ProgressCallback
	Logger     *slog.Logger
}

// Result holds every artifact produced by a successful run.
type Result struct {
	RunID             uuid.UUID
	Metadata          *ingestion.Metadata
	RawText           string
	ResumePrompt      string
	Resume            string
	CoverLetterPrompt string
	CoverLetter       string
}

// StepError wraps the failure of one pipeline step.
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// Pipeline runs the conversion steps strictly in order.
type Pipeline struct {
	extractor Extractor
	completer Completer
	sink      Sink
	opts      Options
	logger    *slog.Logger
}

// New creates a Pipeline.
func New(extractor Extractor, completer Completer, sink Sink, opts Options) *Pipeline {
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Pipeline{
		extractor: extractor,
		completer: completer,
		sink:      sink,
		opts:      opts,
		logger:    logger.With("run_id", opts.RunID.String()),
	}
}

// Run extracts inputPath, reformats it into a resume, then writes a cover letter
// from that resume. Every intermediate text is handed to the sink. The first
// failure aborts the run; artifacts already written are left in place.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	result := &Result{RunID: p.opts.RunID}

	p.progress(StepExtract, MsgExtracting)
	raw, meta, err := p.extractor.ExtractText(inputPath)
	if err != nil {
		return nil, &StepError{Step: StepExtract, Cause: err}
	}
	if meta != nil {
		p.logger.Info("extracted resume text", "source", meta.Source, "pages", meta.Pages, "characters", meta.Characters, "hash", meta.Hash)
	}
	if err := p.persist(artifacts.ResumeRaw, raw); err != nil {
		return nil, &StepError{Step: StepExtract, Cause: err}
	}
	result.RawText = raw
	result.Metadata = meta

	p.progress(StepResume, MsgGeneratingResume)
	result.ResumePrompt, result.Resume, err = p.resumeStage(ctx, raw)
	if err != nil {
		return nil, &StepError{Step: StepResume, Cause: err}
	}

	p.progress(StepCoverLetter, MsgGeneratingLetter)
	result.CoverLetterPrompt, result.CoverLetter, err = p.coverLetterStage(ctx, result.Resume)
	if err != nil {
		return nil, &StepError{Step: StepCoverLetter, Cause: err}
	}

	p.logger.Info("conversion complete", "artifacts", len(artifacts.Names))
	return result, nil
}

// resumeStage builds and sends the reformat prompt. It returns the prompt and
// the resume that the cover-letter stage consumes.
func (p *Pipeline) resumeStage(ctx context.Context, raw string) (string, string, error) {
	return p.completeStage(ctx, raw, prompts.BuildResumePrompt, artifacts.ResumePrompt, artifacts.Resume)
}

// coverLetterStage builds the cover-letter prompt from the resume response.
func (p *Pipeline) coverLetterStage(ctx context.Context, resume string) (string, string, error) {
	return p.completeStage(ctx, resume, prompts.BuildCoverLetterPrompt, artifacts.CoverLetterPrompt, artifacts.CoverLetter)
}

func (p *Pipeline) completeStage(ctx context.Context, input string, build func(string) string, promptName, responseName string) (string, string, error) {
	if err := p.checkEmbeddable(promptName, input); err != nil {
		return "", "", err
	}

	prompt := build(input)
	if err := p.persist(promptName, prompt); err != nil {
		return "", "", err
	}

	p.logger.Debug("sending prompt", "artifact", promptName, "characters", len(prompt))
	response, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return "", "", fmt.Errorf("completion failed: %w", err)
	}
	p.logger.Debug("received completion", "artifact", responseName, "characters", len(response))

	if p.opts.StripTags {
		response = llm.TextBetweenTags(response, llm.ResponseTag)
	}

	if err := p.persist(responseName, response); err != nil {
		return "", "", err
	}
	return prompt, response, nil
}

// checkEmbeddable warns, or fails in strict mode, when input would break the
// prompt's tag structure.
func (p *Pipeline) checkEmbeddable(promptName, input string) error {
	err := prompts.CheckEmbeddable(input)
	if err == nil {
		return nil
	}

	var delimErr *prompts.DelimiterError
	if p.opts.StrictPrompts || !errors.As(err, &delimErr) {
		return err
	}
	p.logger.Warn("embedded text contains prompt delimiters", "artifact", promptName, "delimiters", delimErr.Found)
	return nil
}

func (p *Pipeline) persist(name, text string) error {
	if err := p.sink.Write(name, text); err != nil {
		return err
	}
	p.logger.Debug("wrote artifact", "artifact", name, "characters", len(text))
	return nil
}

func (p *Pipeline) progress(step, message string) {
	_, _ = fmt.Fprintln(p.opts.Progress, message)
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(ProgressEvent{Step: step, Message: message, RunID: p.opts.RunID.String()})
	}
}
