package retrieval

import (
	"github.com/incidentops/graphmind/internal/graph"
)

// Retrieval sources recorded in RetrievalResult for observability.
const (
	SourceVector   = "vector"
	SourceFullText = "fulltext"
	SourceLexical  = "lexical"
	SourceNone     = "none"
)

// Document is a retrieval-oriented projection of a graph node, constructed
// per query and discarded at the end of the request.
type Document struct {
	ID          string         `json:"id"`
	Labels      []string       `json:"labels,omitempty"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Content     string         `json:"content,omitempty"`
	Embedding   []float64      `json:"embedding,omitempty"`
	Score       float64        `json:"score,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// ContentText returns the best available text for prompt assembly,
// preferring content, then description, then title.
func (d Document) ContentText() string {
	if d.Content != "" {
		return d.Content
	}
	if d.Description != "" {
		return d.Description
	}
	return d.Title
}

// RetrievalResult is an ordered, deduplicated, relevance-ranked sequence of
// documents. Length never exceeds the requested top-K and identifiers are
// unique.
type RetrievalResult struct {
	Documents []Document `json:"documents"`

	// Source names the strategy that produced the documents.
	Source string `json:"source"`

	// Exhausted is set when every retrieval strategy failed. The result is
	// then empty but still well-formed; callers treat this as "no context",
	// not as an error.
	Exhausted bool `json:"exhausted,omitempty"`

	// Notes records per-strategy failure reasons for diagnostics. The
	// fallback behavior is identical whether a strategy was unsupported or
	// errored, but the distinction is preserved here for observability.
	Notes []string `json:"notes,omitempty"`
}

// IDs returns the document identifiers in rank order.
func (r RetrievalResult) IDs() []string {
	ids := make([]string, 0, len(r.Documents))
	for _, doc := range r.Documents {
		ids = append(ids, doc.ID)
	}
	return ids
}

// documentFromRecord projects a graph node record into a Document.
func documentFromRecord(rec graph.NodeRecord) Document {
	doc := Document{
		ID:         rec.ID,
		Labels:     rec.Labels,
		Score:      rec.Score,
		Properties: rec.Properties,
	}
	if s, ok := rec.Properties["title"].(string); ok {
		doc.Title = s
	}
	if s, ok := rec.Properties["description"].(string); ok {
		doc.Description = s
	}
	if s, ok := rec.Properties["content"].(string); ok {
		doc.Content = s
	}
	if doc.Title == "" {
		if s, ok := rec.Properties["name"].(string); ok {
			doc.Title = s
		}
	}
	doc.Embedding = asVector(rec.Properties["embedding"])
	return doc
}

// asVector converts a stored embedding property to []float64. Graph drivers
// return list properties as []any.
func asVector(v any) []float64 {
	switch vals := v.(type) {
	case []float64:
		return vals
	case []any:
		out := make([]float64, 0, len(vals))
		for _, item := range vals {
			f, ok := item.(float64)
			if !ok {
				return nil
			}
			out = append(out, f)
		}
		return out
	default:
		return nil
	}
}
