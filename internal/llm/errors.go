package llm

import "github.com/incidentops/graphmind/internal/types"

// Error codes for completion operations.
const (
	ErrCodeInvalidConfig    types.ErrorCode = "LLM_INVALID_CONFIG"
	ErrCodeAuthFailed       types.ErrorCode = "LLM_AUTH_FAILED"
	ErrCodeCompletionFailed                 = types.COMPLETION_FAILED
)
