// Package llm provides the chat-completion client used to reformat resumes
// and write cover letters, with interchangeable providers behind one interface.
package llm

import "fmt"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat-completions API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// Defaults used when a Config field is left empty.
const (
	DefaultModel       = "gpt-4"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
	DefaultOpenAIURL   = "https://api.openai.com/v1"
)

// FormatReminder is sent as a second user message after every prompt.
const FormatReminder = "Tips: Make sure to answer in the correct format"

// Config holds the model configuration for the completion client
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
	MaxTokens   int
	// BaseURL overrides the provider endpoint. Only the OpenAI provider honors it.
	BaseURL string
}

// DefaultConfig returns the default configuration (OpenAI gpt-4)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		BaseURL:     DefaultOpenAIURL,
	}
}

// ParseProvider converts a provider name into a Provider.
// An empty name selects OpenAI.
func ParseProvider(name string) (Provider, error) {
	switch Provider(name) {
	case "", ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("unknown provider %q (expected openai, gemini or anthropic)", name)
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
// Temperature is left alone since zero is a valid setting.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	result := *c
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = result.Provider.DefaultModel()
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	return &result
}

// DefaultModel returns the model used when none is configured for the provider.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderAnthropic:
		return "claude-3-7-sonnet-latest"
	default:
		return DefaultModel
	}
}

// APIKeyEnv returns the environment variable consulted for the provider's API key.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}
