package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-4", config.Model)
	assert.InDelta(t, 0.7, config.Temperature, 0.0001)
	assert.Equal(t, 4000, config.MaxTokens)
	assert.Equal(t, DefaultOpenAIURL, config.BaseURL)
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{input: "", want: ProviderOpenAI},
		{input: "openai", want: ProviderOpenAI},
		{input: "gemini", want: ProviderGemini},
		{input: "anthropic", want: ProviderAnthropic},
		{input: "mistral", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithDefaults_ProviderSpecificModel(t *testing.T) {
	gemini := (&Config{Provider: ProviderGemini}).withDefaults()
	assert.Equal(t, "gemini-2.5-flash", gemini.Model)
	assert.Equal(t, DefaultMaxTokens, gemini.MaxTokens)

	claude := (&Config{Provider: ProviderAnthropic}).withDefaults()
	assert.Equal(t, "claude-3-7-sonnet-latest", claude.Model)

	empty := (&Config{}).withDefaults()
	assert.Equal(t, ProviderOpenAI, empty.Provider)
	assert.Equal(t, DefaultModel, empty.Model)
	assert.Equal(t, DefaultOpenAIURL, empty.BaseURL)
}

func TestWithDefaults_KeepsZeroTemperature(t *testing.T) {
	config := (&Config{Temperature: 0}).withDefaults()
	assert.Zero(t, config.Temperature)

	config = (&Config{Temperature: 1.2}).withDefaults()
	assert.InDelta(t, 1.2, config.Temperature, 0.0001)
}

func TestAPIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", ProviderOpenAI.APIKeyEnv())
	assert.Equal(t, "GEMINI_API_KEY", ProviderGemini.APIKeyEnv())
	assert.Equal(t, "ANTHROPIC_API_KEY", ProviderAnthropic.APIKeyEnv())
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultConfig(), "")
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestNewClient_SelectsProvider(t *testing.T) {
	client, err := NewClient(context.Background(), nil, "test-key")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.IsType(t, &OpenAIClient{}, client)
	assert.Equal(t, "gpt-4", client.Model())

	claude, err := NewClient(context.Background(), &Config{Provider: ProviderAnthropic}, "test-key")
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, claude)
	assert.Equal(t, "claude-3-7-sonnet-latest", claude.Model())
}
