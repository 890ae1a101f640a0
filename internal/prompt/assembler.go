// Package prompt builds deterministic LLM prompts from retrieved documents
// and graph expansion context.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/retrieval"
)

const (
	// systemInstruction anchors the model on the synthesis task.
	systemInstruction = "System: You are an assistant that synthesizes an incident proposal from the provided context."

	// docContentBudget bounds per-document content so total prompt size
	// stays proportional to document count, not document size.
	docContentBudget = 1000

	truncationMarker = "..."

	documentsHeader = "-- CONTEXT: Relevant documents --"
	graphHeader     = "-- CONTEXT: Graph neighbours --"

	// closingInstruction pins the output contract the extractor and
	// projector depend on.
	closingInstruction = "Respond with a single JSON object containing: " +
		`"id" (string), "type" (string), "title" (string), "description" (string), ` +
		`"status" (string), "priority" (string), "services" (list of strings), ` +
		`"teams" (list of strings), "runbooks" (list of strings).`
)

// Config controls prompt assembly.
type Config struct {
	// ContentBudget is the per-document character cap. Zero means the
	// default budget.
	ContentBudget int `json:"content_budget" mapstructure:"content_budget"`
}

// DefaultConfig returns the default assembler configuration.
func DefaultConfig() Config {
	return Config{ContentBudget: docContentBudget}
}

// Assembler produces the augmentation prompt. Assembly is deterministic and
// never fails: documents with no usable content contribute an empty block.
type Assembler struct {
	config Config
}

// NewAssembler creates an Assembler with the given configuration.
func NewAssembler(config Config) *Assembler {
	if config.ContentBudget <= 0 {
		config.ContentBudget = docContentBudget
	}
	return &Assembler{config: config}
}

// Assemble concatenates the system instruction, the user text, one labeled
// block per document, the serialized graph context, and the closing output
// instruction.
func (a *Assembler) Assemble(userText string, docs []retrieval.Document, graphCtx map[string][]graph.NeighborEdge) string {
	pieces := make([]string, 0, len(docs)+5)
	pieces = append(pieces, systemInstruction)
	pieces = append(pieces, "User: "+userText)

	pieces = append(pieces, documentsHeader)
	for i, doc := range docs {
		pieces = append(pieces, fmt.Sprintf("[DOC %d] %s", i+1,
			truncate(doc.ContentText(), a.config.ContentBudget)))
	}

	pieces = append(pieces, graphHeader)
	pieces = append(pieces, serializeGraphContext(graphCtx))

	pieces = append(pieces, closingInstruction)

	return strings.Join(pieces, "\n\n")
}

// truncate caps content at budget characters. The cut is taken on rune
// boundaries so multi-byte content never ends mid code point.
func truncate(content string, budget int) string {
	runes := []rune(content)
	if len(runes) <= budget {
		return content
	}
	return string(runes[:budget]) + truncationMarker
}

// serializeGraphContext renders the expansion result as indented JSON. A nil
// context serializes as an empty object so the block is always present.
func serializeGraphContext(graphCtx map[string][]graph.NeighborEdge) string {
	if graphCtx == nil {
		graphCtx = map[string][]graph.NeighborEdge{}
	}
	data, err := json.MarshalIndent(graphCtx, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", graphCtx)
	}
	return string(data)
}
