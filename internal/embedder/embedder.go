package embedder

import (
	"context"

	"github.com/incidentops/graphmind/internal/types"
)

// Embedder generates embedding vectors from text content.
// Implementations must be thread-safe for concurrent access.
//
// The retrieval pipeline treats embedding failures as a fallback signal, never
// as a fatal condition: a nil vector means "retrieve lexically instead".
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimensions returns the dimensionality of embedding vectors.
	Dimensions() int

	// Model returns the name of the embedding model being used.
	Model() string

	// Health returns the health status of the embedder.
	Health(ctx context.Context) types.HealthStatus
}

// Config holds configuration for embedding providers.
type Config struct {
	// Provider specifies which embedder implementation to use.
	// Options: "openai", "mock", "" (disabled).
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`

	// Model is the specific embedding model to use.
	// For OpenAI: "text-embedding-3-small" (1536 dims) or "text-embedding-3-large" (3072 dims)
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// APIKey is the API key for the embedding provider.
	// Can also be provided via environment variable (e.g., OPENAI_API_KEY)
	APIKey string `yaml:"api_key" json:"api_key" mapstructure:"api_key"`

	// BaseURL is the base URL for the embedding API.
	// For OpenAI, this defaults to "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Timeout is the request timeout in seconds.
	Timeout int `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// Enabled reports whether an embedding provider is configured at all.
// An unconfigured embedder is not an error: retrieval falls back to lexical search.
func (c *Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks if the Config is valid. An empty provider is valid (disabled).
func (c *Config) Validate() error {
	if c.Provider == "" {
		return nil
	}

	if c.Model == "" {
		return types.NewError(ErrCodeInvalidConfig, "embedder model cannot be empty")
	}

	if c.Provider == "openai" && c.APIKey == "" {
		return types.NewError(ErrCodeInvalidConfig,
			"OpenAI embedder requires api_key (or OPENAI_API_KEY environment variable)")
	}

	if c.Timeout < 0 {
		return types.NewError(ErrCodeInvalidConfig, "timeout must be non-negative")
	}

	return nil
}

// DefaultConfig returns a default configuration for the OpenAI embedder.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Model:    "text-embedding-3-small",
		APIKey:   "", // Must be provided via config or env var
		BaseURL:  "https://api.openai.com/v1",
		Timeout:  15,
	}
}
