package llm

import (
	"context"

	"github.com/incidentops/graphmind/internal/types"
)

// CompletionClient is the minimal surface the pipeline needs from a language
// model: one blocking prompt-to-text completion. Implementations wrap a
// concrete provider (OpenAI-compatible endpoints, Perplexity, local models).
type CompletionClient interface {
	// Name returns the provider name (e.g., "openai", "perplexity", "mock").
	Name() string

	// Complete sends the prompt and returns the full response text.
	// A failure here is terminal for the request; callers surface it as an
	// error envelope rather than falling back.
	Complete(ctx context.Context, prompt string) (string, error)

	// Health checks the health status of the provider and its connectivity.
	Health(ctx context.Context) types.HealthStatus
}

// Config holds configuration for the completion provider.
type Config struct {
	// Provider selects the implementation: "openai", "mock".
	// OpenAI-compatible endpoints (Perplexity, local gateways) use "openai"
	// with a BaseURL override.
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`

	// Model is the model identifier sent with each completion.
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// APIKey authenticates against the provider.
	// Falls back to provider-specific environment variables.
	APIKey string `yaml:"api_key" json:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Temperature for completions. The incident synthesis prompt wants
	// near-deterministic output.
	Temperature float64 `yaml:"temperature" json:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the completion length.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`

	// Timeout is the request timeout in seconds.
	Timeout int `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// Validate checks if the Config is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return types.NewError(ErrCodeInvalidConfig, "llm provider cannot be empty")
	}
	if c.Provider == "openai" && c.Model == "" {
		return types.NewError(ErrCodeInvalidConfig, "llm model cannot be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return types.NewError(ErrCodeInvalidConfig, "temperature must be in [0, 2]")
	}
	if c.MaxTokens < 0 {
		return types.NewError(ErrCodeInvalidConfig, "max_tokens must be non-negative")
	}
	return nil
}

// DefaultConfig returns defaults matching the incident synthesis contract:
// low temperature, bounded output.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   1000,
		Timeout:     30,
	}
}
