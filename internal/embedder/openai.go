package embedder

import (
	"context"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/incidentops/graphmind/internal/types"
)

// Fallback dimensionality when the model is unknown; text-embedding-3-small.
const defaultDimensions = 1536

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIEmbedder generates embeddings through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client  *openai.LLM
	config  Config
	timeout time.Duration
}

// NewOpenAIEmbedder creates a new OpenAI-backed embedder.
// The API key falls back to the OPENAI_API_KEY environment variable.
func NewOpenAIEmbedder(cfg Config) (*OpenAIEmbedder, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(ErrCodeInvalidConfig,
			"OpenAI embedder requires api_key (or OPENAI_API_KEY environment variable)")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbedderUnavailable,
			"failed to create OpenAI client", err)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &OpenAIEmbedder{
		client:  client,
		config:  cfg,
		timeout: timeout,
	}, nil
}

// Embed generates an embedding vector for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	embedCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.client.CreateEmbedding(embedCtx, []string{text})
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbeddingFailed, "embedding request failed", err)
	}
	if len(vectors) == 0 {
		return nil, types.NewError(ErrCodeEmbeddingFailed, "embedding response was empty")
	}

	vector := make([]float64, len(vectors[0]))
	for i, v := range vectors[0] {
		vector[i] = float64(v)
	}
	return vector, nil
}

// Dimensions returns the dimensionality for the configured model.
func (e *OpenAIEmbedder) Dimensions() int {
	if dims, ok := modelDimensions[e.config.Model]; ok {
		return dims
	}
	return defaultDimensions
}

// Model returns the name of the embedding model.
func (e *OpenAIEmbedder) Model() string {
	return e.config.Model
}

// Health checks the embedder by generating a test embedding.
func (e *OpenAIEmbedder) Health(ctx context.Context) types.HealthStatus {
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := e.Embed(healthCtx, "health check"); err != nil {
		return types.Degraded("embedding request failed: " + err.Error())
	}
	return types.Healthy("openai embedder operational")
}
