package llm

import (
	"context"
	"fmt"
	"net/http"
)

// Client is an abstraction over chat-completion providers
type Client interface {
	// Complete sends the prompt followed by FormatReminder as user messages and
	// returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (set %s or use --apikey)", config.Provider.APIKeyEnv())
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey, http.DefaultClient), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// APIError is returned when a provider answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Body)
}
