package llm

import (
	"context"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/incidentops/graphmind/internal/types"
)

// OpenAIClient implements CompletionClient against any OpenAI-compatible
// chat-completions endpoint. Perplexity and most local gateways speak the
// same protocol, so a BaseURL override is all they need.
type OpenAIClient struct {
	client  *openai.LLM
	config  Config
	timeout time.Duration
}

// NewOpenAIClient creates a new OpenAI-compatible completion client.
// The API key falls back to the OPENAI_API_KEY environment variable.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(ErrCodeAuthFailed,
			"completion client requires api_key (or OPENAI_API_KEY environment variable)")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, types.WrapError(ErrCodeCompletionFailed,
			"failed to create completion client", err)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:  client,
		config:  cfg,
		timeout: timeout,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Complete sends the prompt as a single user message and returns the text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(callCtx, c.client, prompt,
		llms.WithTemperature(c.config.Temperature),
		llms.WithMaxTokens(c.config.MaxTokens),
	)
	if err != nil {
		return "", types.WrapError(ErrCodeCompletionFailed, "completion request failed", err)
	}
	return response, nil
}

// Health checks the provider with a trivial completion.
func (c *OpenAIClient) Health(ctx context.Context) types.HealthStatus {
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := c.Complete(healthCtx, "ping"); err != nil {
		return types.Unhealthy("completion check failed: " + err.Error())
	}
	return types.Healthy("completion client operational")
}
