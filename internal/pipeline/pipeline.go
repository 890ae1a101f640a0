// Package pipeline wires retrieval, graph expansion, prompt assembly, LLM
// completion, and response extraction into the incident proposal flow.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/incident"
	"github.com/incidentops/graphmind/internal/llm"
	"github.com/incidentops/graphmind/internal/prompt"
	"github.com/incidentops/graphmind/internal/retrieval"
	"github.com/incidentops/graphmind/internal/types"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Config holds pipeline tunables.
type Config struct {
	// TopK is the number of documents retrieved per request.
	TopK int `json:"top_k" mapstructure:"top_k"`

	// NeighborLimit caps the total edges returned by the expansion stage.
	NeighborLimit int `json:"neighbor_limit" mapstructure:"neighbor_limit"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		TopK:          retrieval.DefaultTopK,
		NeighborLimit: 50,
	}
}

// ProposalResponse is the envelope returned to callers for a proposal
// request.
type ProposalResponse struct {
	Status       string                          `json:"status"`
	LLMProposal  incident.Proposal               `json:"llm_proposal"`
	Documents    []retrieval.Document            `json:"documents"`
	GraphContext map[string][]graph.NeighborEdge `json:"graph_context"`
	Graph        incident.VisualizationGraph     `json:"graph"`

	// Retrieval carries the source and any degradation notes from the
	// retrieval stage.
	Retrieval RetrievalMeta `json:"retrieval"`
}

// RetrievalMeta summarizes how context was obtained for a request.
type RetrievalMeta struct {
	Source    string   `json:"source"`
	Exhausted bool     `json:"exhausted,omitempty"`
	Notes     []string `json:"notes,omitempty"`
}

// Retriever is the retrieval stage surface the pipeline depends on.
type Retriever interface {
	Retrieve(ctx context.Context, text string, topK int) (retrieval.RetrievalResult, error)
}

// Pipeline executes the full proposal flow. Each invocation is independent
// and stateless; the pipeline is safe for concurrent use.
type Pipeline struct {
	retriever Retriever
	client    graph.GraphClient
	assembler *prompt.Assembler
	completer llm.CompletionClient
	config    Config
	logger    *slog.Logger
}

// New creates a Pipeline from its stage implementations.
func New(retriever Retriever, client graph.GraphClient, assembler *prompt.Assembler, completer llm.CompletionClient, config Config, logger *slog.Logger) *Pipeline {
	if config.TopK <= 0 {
		config.TopK = retrieval.DefaultTopK
	}
	if config.NeighborLimit <= 0 {
		config.NeighborLimit = DefaultConfig().NeighborLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		retriever: retriever,
		client:    client,
		assembler: assembler,
		completer: completer,
		config:    config,
		logger:    logger.With("component", "pipeline"),
	}
}

// ProposeIncident runs retrieve, expand, assemble, complete, extract, and
// project for the given user text. Retrieval and expansion degrade to empty
// context on failure; only invalid input and completion failure return an
// error.
func (p *Pipeline) ProposeIncident(ctx context.Context, userText string) (*ProposalResponse, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, types.NewError(types.INVALID_INPUT, "user text is empty")
	}

	result, err := p.retriever.Retrieve(ctx, userText, p.config.TopK)
	if err != nil {
		return nil, err
	}

	graphCtx := p.expand(ctx, result.IDs())

	promptText := p.assembler.Assemble(userText, result.Documents, graphCtx)

	raw, err := p.completer.Complete(ctx, promptText)
	if err != nil {
		// The LLM call is the one stage with no fallback.
		return nil, types.WrapError(types.COMPLETION_FAILED, "llm completion failed", err)
	}

	proposal := llm.ExtractProposal(raw)
	if proposal.IsSentinel() {
		p.logger.Warn("llm response not parseable as proposal",
			"error", proposal[incident.FieldError])
	}

	return &ProposalResponse{
		Status:       StatusSuccess,
		LLMProposal:  proposal,
		Documents:    result.Documents,
		GraphContext: graphCtx,
		Graph:        incident.Project(proposal),
		Retrieval: RetrievalMeta{
			Source:    result.Source,
			Exhausted: result.Exhausted,
			Notes:     result.Notes,
		},
	}, nil
}

// expand fetches direct neighbors for the retrieved nodes, grouped by source
// node. Expansion failure degrades to an empty context.
func (p *Pipeline) expand(ctx context.Context, nodeIDs []string) map[string][]graph.NeighborEdge {
	graphCtx := make(map[string][]graph.NeighborEdge)
	if len(nodeIDs) == 0 {
		return graphCtx
	}

	edges, err := p.client.GetNeighbors(ctx, nodeIDs, p.config.NeighborLimit)
	if err != nil {
		p.logger.Warn("graph expansion failed", "error", err)
		return graphCtx
	}

	for _, edge := range edges {
		graphCtx[edge.SourceID] = append(graphCtx[edge.SourceID], edge)
	}
	return graphCtx
}
