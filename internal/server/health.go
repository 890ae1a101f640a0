package server

import (
	"context"

	"github.com/incidentops/graphmind/internal/embedder"
	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/llm"
	"github.com/incidentops/graphmind/internal/types"
)

// ComponentHealth aggregates the health of the pipeline's external
// dependencies. A nil embedder reports degraded rather than unhealthy since
// retrieval degrades to lexical search without one.
type ComponentHealth struct {
	Client    graph.GraphClient
	Embedder  embedder.Embedder
	Completer llm.CompletionClient
}

// Health checks each configured component.
func (h *ComponentHealth) Health(ctx context.Context) map[string]types.HealthStatus {
	components := make(map[string]types.HealthStatus, 3)

	if h.Client != nil {
		components["graph"] = h.Client.Health(ctx)
	}
	if h.Embedder != nil {
		components["embedder"] = h.Embedder.Health(ctx)
	} else {
		components["embedder"] = types.Degraded("no embedding provider configured, vector search disabled")
	}
	if h.Completer != nil {
		components["llm"] = h.Completer.Health(ctx)
	}
	return components
}
