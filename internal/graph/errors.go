package graph

import "github.com/incidentops/graphmind/internal/types"

// Error codes for graph client operations.
const (
	ErrCodeGraphConnectionFailed = types.GRAPH_CONNECTION_FAILED
	ErrCodeGraphConnectionClosed = types.GRAPH_CONNECTION_CLOSED
	ErrCodeGraphQueryFailed      = types.GRAPH_QUERY_FAILED
	ErrCodeGraphInvalidConfig    = types.GRAPH_INVALID_CONFIG
)
