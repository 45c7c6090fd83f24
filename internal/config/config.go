// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-converter/internal/schemas"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional in the file; CLI flags override it before validation.
type Config struct {
	// Paths
	Input  string `json:"input,omitempty" yaml:"input,omitempty" validate:"required,file"`  // Source PDF
	Output string `json:"output,omitempty" yaml:"output,omitempty" validate:"required,dir"` // Existing output directory

	// Completion provider
	APIKey      string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Provider    string   `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=openai gemini anthropic"`
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int      `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"gte=0"`
	BaseURL     string   `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`

	// Behavior
	StripTags     bool   `json:"strip_tags,omitempty" yaml:"strip_tags,omitempty"`         // Persist only the content inside <response> tags
	StrictPrompts bool   `json:"strict_prompts,omitempty" yaml:"strict_prompts,omitempty"` // Fail when embedded text contains prompt delimiters
	DatabaseURL   string `json:"database_url,omitempty" yaml:"database_url,omitempty"`     // Optional PostgreSQL artifact store
	ExportPDF     bool   `json:"export_pdf,omitempty" yaml:"export_pdf,omitempty"`         // Print resume and cover letter HTML to PDF
	Verbose       bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`               // Print detailed debug information
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// The document is checked against the embedded config schema before decoding.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var doc any
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		if err := checkSchema(doc); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		if err := checkSchema(doc); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

func checkSchema(doc any) error {
	if doc == nil {
		// An empty file is an empty config.
		return nil
	}
	if err := schemas.ValidateValue(schemas.ConfigSchema, doc); err != nil {
		return fmt.Errorf("config file does not match schema: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config-file names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks that the merged configuration is usable for a run.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("config error: %s", strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "file":
		return fmt.Sprintf("'%s' must be an existing file: %v", field, fe.Value())
	case "dir":
		return fmt.Sprintf("'%s' must be an existing directory: %v", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s]", field, fe.Param())
	case "url":
		return fmt.Sprintf("'%s' must be a URL", field)
	default:
		return fmt.Sprintf("'%s' failed '%s=%s'", field, fe.Tag(), fe.Param())
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Bool fields are not merged: false is both their zero value and their default.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Temperature: unset only when nil, so an explicit 0 is kept
	if result.Temperature == nil && defaults.Temperature != nil {
		t := *defaults.Temperature
		result.Temperature = &t
	}

	// Numeric fields: use default if zero
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}

	return result
}
