package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentops/graphmind/internal/incident"
)

func TestExtractProposal_FencedJSONBlock(t *testing.T) {
	raw := "```json\n{\"id\":\"INC-1\",\"services\":[\"svc-a\"]}\n```"

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	assert.Equal(t, "INC-1", p["id"])
	assert.Equal(t, []string{"svc-a"}, p.StringList("services"))
}

func TestExtractProposal_FencedBlockNoLanguageTag(t *testing.T) {
	raw := "Here you go:\n\n```\n{\"id\": \"INC-2\", \"priority\": \"P1\"}\n```\n\nAnything else?"

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	assert.Equal(t, "INC-2", p["id"])
}

func TestExtractProposal_SkipsNonJSONBlocks(t *testing.T) {
	raw := "```bash\necho hello\n```\n\n```json\n{\"id\": \"INC-3\"}\n```"

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	assert.Equal(t, "INC-3", p["id"])
}

func TestExtractProposal_PlainJSON(t *testing.T) {
	raw := `  {"id": "INC-4", "teams": ["payments"]}  `

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	assert.Equal(t, "INC-4", p["id"])
	assert.Equal(t, []string{"payments"}, p.StringList("teams"))
}

func TestExtractProposal_ObjectEmbeddedInProse(t *testing.T) {
	raw := `Based on the context, I propose the following incident:

{"id": "INC-5", "title": "Auth outage", "services": ["auth-api"]}

Let me know if you want changes.`

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	assert.Equal(t, "INC-5", p["id"])
	assert.Equal(t, "Auth outage", p["title"])
}

func TestExtractProposal_NestedObjectInProse(t *testing.T) {
	raw := `Proposal: {"id": "INC-6", "meta": {"region": "eu-west-1"}} - done.`

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	meta, ok := p["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "eu-west-1", meta["region"])
}

func TestExtractProposal_BracesInsideStrings(t *testing.T) {
	raw := `{"id": "INC-7", "description": "error was {code: 500}"}`

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	assert.Equal(t, "error was {code: 500}", p["description"])
}

func TestExtractProposal_RepairsAlmostJSON(t *testing.T) {
	// Trailing comma, invalid JSON until the repair stage fixes it.
	raw := `{"id": "INC-8", "services": ["svc-a",],}`

	p := ExtractProposal(raw)

	require.False(t, p.IsSentinel())
	assert.Equal(t, "INC-8", p["id"])
	assert.Equal(t, []string{"svc-a"}, p.StringList("services"))
}

func TestExtractProposal_ProseWithoutJSON(t *testing.T) {
	raw := "I'm sorry, I cannot produce an incident for that request."

	p := ExtractProposal(raw)

	require.True(t, p.IsSentinel())
	assert.Equal(t, raw, p["text"])
	assert.Equal(t, raw, p["raw_response"])
	assert.Equal(t, "No JSON found in LLM response", p["error"])
}

func TestExtractProposal_EmptyString(t *testing.T) {
	p := ExtractProposal("")

	require.True(t, p.IsSentinel())
	assert.Equal(t, "", p["text"])
}

func TestExtractProposal_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"{",
		"}",
		"{}",
		"[1, 2, 3]",
		"null",
		strings.Repeat("{", 10000),
		"```json\n\n```",
		`{"a": "\""}`,
		"```json\n{\"unterminated\": \n```",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			p := ExtractProposal(input)
			assert.NotNil(t, p)
		})
	}
}

func TestExtractProposal_RoundTrip(t *testing.T) {
	original := incident.Proposal{
		"id":       "INC-1",
		"type":     "Incident",
		"title":    "Payment outage",
		"status":   "open",
		"priority": "P1",
		"services": []any{"payment-api"},
		"teams":    []any{"payments"},
		"runbooks": []any{},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	recovered := ExtractProposal(string(data))
	assert.Equal(t, original, recovered)
}

func TestExtractProposal_FullScenario(t *testing.T) {
	// Fenced response through to visualization graph.
	raw := "```json\n{\"id\":\"INC-1\",\"services\":[\"svc-a\"]}\n```"

	p := ExtractProposal(raw)
	g := incident.Project(p)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, incident.VizNode{ID: "INC-1", Label: "Incident"}, g.Nodes[0])
	assert.Equal(t, incident.VizNode{ID: "svc-a", Label: "Service"}, g.Nodes[1])
	require.Len(t, g.Edges, 1)
	assert.Equal(t, incident.VizEdge{From: "INC-1", To: "svc-a", Type: "AFFECTS"}, g.Edges[0])
}
