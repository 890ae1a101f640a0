package embedder

import "github.com/incidentops/graphmind/internal/types"

// Error codes for embedding operations.
const (
	ErrCodeInvalidConfig       types.ErrorCode = "EMBEDDER_INVALID_CONFIG"
	ErrCodeEmbedderUnavailable types.ErrorCode = "EMBEDDER_UNAVAILABLE"
	ErrCodeEmbeddingFailed                     = types.EMBEDDING_FAILED
)
