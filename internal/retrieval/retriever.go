package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/incidentops/graphmind/internal/embedder"
	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/types"
)

// ErrStrategyUnavailable signals that a strategy cannot run in the current
// configuration (for example, vector search without a query embedding). The
// retriever treats it exactly like a strategy failure and falls through.
var ErrStrategyUnavailable = errors.New("retrieval strategy unavailable")

// DefaultTopK is applied when the caller requests zero or negative results.
const DefaultTopK = 8

// overFetchFactor over-requests candidates from each strategy so that
// deduplication still leaves enough documents to fill the top-K window.
const overFetchFactor = 3

// query bundles the free text with its embedding, when one was obtained.
type query struct {
	text      string
	embedding []float64
}

// strategy is a single candidate source tried in fallback order.
type strategy interface {
	Name() string
	Fetch(ctx context.Context, q query, limit int) ([]graph.NodeRecord, error)
}

// HybridRetriever resolves free text into a ranked document set. The query is
// embedded once up front when an embedder is configured; retrieval then tries
// strategies in order: vector nearest-neighbor search, full-text index
// search, lexical property scan. The first strategy that returns without
// error wins, even if it returned nothing.
type HybridRetriever struct {
	embedder   embedder.Embedder
	strategies []strategy
	logger     *slog.Logger
}

// NewHybridRetriever builds a retriever over the given graph client. The
// embedder may be nil, in which case vector search is skipped entirely.
func NewHybridRetriever(client graph.GraphClient, emb embedder.Embedder, logger *slog.Logger) *HybridRetriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridRetriever{
		embedder: emb,
		strategies: []strategy{
			&vectorStrategy{client: client},
			&fullTextStrategy{client: client},
			&lexicalStrategy{client: client},
		},
		logger: logger.With("component", "retriever"),
	}
}

// Retrieve returns at most topK documents relevant to the query text.
// Strategy failures are recorded and logged, never surfaced; when every
// strategy fails the result is empty with Exhausted set. The only error
// returned is for invalid caller input.
func (r *HybridRetriever) Retrieve(ctx context.Context, text string, topK int) (RetrievalResult, error) {
	if strings.TrimSpace(text) == "" {
		return RetrievalResult{}, types.NewError(types.INVALID_INPUT, "query text is empty")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	result := RetrievalResult{Source: SourceNone}
	q := query{text: text}

	if r.embedder != nil {
		vec, err := r.embedder.Embed(ctx, text)
		if err != nil {
			result.Notes = append(result.Notes, fmt.Sprintf("embedding: %v", err))
			r.logger.Warn("query embedding failed, vector search skipped", "error", err)
		} else {
			q.embedding = vec
		}
	}

	limit := topK * overFetchFactor

	for _, strat := range r.strategies {
		records, err := strat.Fetch(ctx, q, limit)
		if err != nil {
			result.Notes = append(result.Notes, fmt.Sprintf("%s: %v", strat.Name(), err))
			if !errors.Is(err, ErrStrategyUnavailable) {
				r.logger.Warn("retrieval strategy failed",
					"strategy", strat.Name(),
					"error", err)
			}
			continue
		}

		result.Source = strat.Name()
		result.Documents = dedupe(records, topK)
		if strat.Name() != SourceVector {
			scoreAgainstQuery(result.Documents, q.embedding)
		}
		return result, nil
	}

	exhausted := types.NewRetryableError(types.RETRIEVAL_EXHAUSTED, "all retrieval strategies failed")
	r.logger.Warn("all retrieval strategies exhausted", "error", exhausted, "notes", result.Notes)
	result.Exhausted = true
	result.Notes = append(result.Notes, exhausted.Error())
	return result, nil
}

// dedupe keeps the first occurrence of each node identifier, preserving
// strategy rank order, and truncates to topK.
func dedupe(records []graph.NodeRecord, topK int) []Document {
	seen := make(map[string]bool, len(records))
	docs := make([]Document, 0, topK)
	for _, rec := range records {
		if rec.ID == "" || seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		docs = append(docs, documentFromRecord(rec))
		if len(docs) == topK {
			break
		}
	}
	return docs
}

// scoreAgainstQuery attaches cosine similarity to fallback documents that
// carry a stored embedding. Order is not changed: fallback results keep the
// rank their source produced.
func scoreAgainstQuery(docs []Document, queryEmbedding []float64) {
	if len(queryEmbedding) == 0 {
		return
	}
	for i := range docs {
		if len(docs[i].Embedding) > 0 {
			docs[i].Score = Cosine(queryEmbedding, docs[i].Embedding)
		}
	}
}

type vectorStrategy struct {
	client graph.GraphClient
}

func (s *vectorStrategy) Name() string { return SourceVector }

func (s *vectorStrategy) Fetch(ctx context.Context, q query, limit int) ([]graph.NodeRecord, error) {
	if len(q.embedding) == 0 {
		return nil, fmt.Errorf("%w: no query embedding", ErrStrategyUnavailable)
	}
	return s.client.SearchVector(ctx, q.embedding, limit)
}

type fullTextStrategy struct {
	client graph.GraphClient
}

func (s *fullTextStrategy) Name() string { return SourceFullText }

func (s *fullTextStrategy) Fetch(ctx context.Context, q query, limit int) ([]graph.NodeRecord, error) {
	return s.client.SearchFullText(ctx, q.text, limit)
}

type lexicalStrategy struct {
	client graph.GraphClient
}

func (s *lexicalStrategy) Name() string { return SourceLexical }

func (s *lexicalStrategy) Fetch(ctx context.Context, q query, limit int) ([]graph.NodeRecord, error) {
	return s.client.SearchLexical(ctx, q.text, limit)
}
