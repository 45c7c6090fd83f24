package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
)

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a client targeting config.BaseURL.
// A nil httpClient selects http.DefaultClient.
func NewOpenAIClient(config *Config, apiKey string, httpClient *http.Client) *OpenAIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	config = config.withDefaults()
	return &OpenAIClient{
		client: openai.NewClient(
			openaioption.WithAPIKey(apiKey),
			openaioption.WithBaseURL(config.BaseURL),
			openaioption.WithHTTPClient(httpClient),
			openaioption.WithMaxRetries(0),
		),
		config: config,
	}
}

// Complete sends prompt and the format reminder as two user messages and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
			openai.UserMessage(FormatReminder),
		},
		Temperature: openai.Float(float64(c.config.Temperature)),
		MaxTokens:   openai.Int(int64(c.config.MaxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			body := apiErr.RawJSON()
			if body == "" {
				body = apiErr.Message
			}
			return "", &APIError{StatusCode: apiErr.StatusCode, Body: body}
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client is shared.
func (c *OpenAIClient) Close() error {
	return nil
}
