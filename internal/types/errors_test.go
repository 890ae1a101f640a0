package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	err := NewError(GRAPH_QUERY_FAILED, "query blew up")
	assert.Equal(t, "[GRAPH_QUERY_FAILED] query blew up", err.Error())
}

func TestError_FormatWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapError(GRAPH_CONNECTION_FAILED, "could not reach store", cause)
	assert.Equal(t, "[GRAPH_CONNECTION_FAILED] could not reach store: connection refused", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("timeout")
	err := WrapError(EMBEDDING_FAILED, "embed call failed", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_IsMatchesByCode(t *testing.T) {
	a := NewError(RETRIEVAL_EXHAUSTED, "vector and lexical both failed")
	b := NewError(RETRIEVAL_EXHAUSTED, "different message")
	c := NewError(COMPLETION_FAILED, "other code")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(GRAPH_CONNECTION_FAILED, "transient")
	assert.True(t, err.Retryable)

	err2 := NewError(GRAPH_CONNECTION_FAILED, "permanent")
	assert.False(t, err2.Retryable)
}
