package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentops/graphmind/internal/embedder"
	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/incident"
	"github.com/incidentops/graphmind/internal/llm"
	"github.com/incidentops/graphmind/internal/prompt"
	"github.com/incidentops/graphmind/internal/retrieval"
	"github.com/incidentops/graphmind/internal/types"
)

const proposalJSON = `{
  "id": "INC-42",
  "type": "Incident",
  "title": "Payment gateway outage",
  "services": ["payments"],
  "teams": ["sre"],
  "runbooks": ["rb-payments"]
}`

func newTestPipeline(client *graph.MockGraphClient, completer llm.CompletionClient) *Pipeline {
	retriever := retrieval.NewHybridRetriever(client, embedder.NewMockEmbedder(8), nil)
	assembler := prompt.NewAssembler(prompt.DefaultConfig())
	return New(retriever, client, assembler, completer, DefaultConfig(), nil)
}

func TestProposeIncident_FullFlow(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetVectorResults([]graph.NodeRecord{
		{ID: "n1", Labels: []string{"Service"}, Properties: map[string]any{
			"name":    "Payment Service",
			"content": "Handles card payments.",
		}},
	})
	client.AddEdge(graph.NeighborEdge{
		SourceID:     "n1",
		TargetID:     "n2",
		RelationType: "DEPENDS_ON",
		Direction:    "outgoing",
	})
	completer := llm.NewMockCompletionClient(proposalJSON)

	p := newTestPipeline(client, completer)
	resp, err := p.ProposeIncident(context.Background(), "payments are failing")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, "INC-42", resp.LLMProposal[incident.FieldID])
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "n1", resp.Documents[0].ID)
	assert.Equal(t, retrieval.SourceVector, resp.Retrieval.Source)

	require.Contains(t, resp.GraphContext, "n1")
	assert.Equal(t, "n2", resp.GraphContext["n1"][0].TargetID)

	// Projection includes the incident plus one node per listed entity.
	assert.Len(t, resp.Graph.Nodes, 4)
	assert.Len(t, resp.Graph.Edges, 3)

	// The prompt carried both retrieved content and graph context.
	prompts := completer.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Handles card payments.")
	assert.Contains(t, prompts[0], "DEPENDS_ON")
	assert.Contains(t, prompts[0], "payments are failing")
}

func TestProposeIncident_EmptyInputRejected(t *testing.T) {
	p := newTestPipeline(graph.NewMockGraphClient(), llm.NewMockCompletionClient("{}"))

	_, err := p.ProposeIncident(context.Background(), "  ")
	require.Error(t, err)

	var gerr *types.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, types.INVALID_INPUT, gerr.Code)
}

func TestProposeIncident_CompletionFailureIsTerminal(t *testing.T) {
	completer := llm.NewMockCompletionClient()
	completer.SetCompleteError(errors.New("rate limited"))

	p := newTestPipeline(graph.NewMockGraphClient(), completer)
	_, err := p.ProposeIncident(context.Background(), "payments are failing")
	require.Error(t, err)

	var gerr *types.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, types.COMPLETION_FAILED, gerr.Code)
}

func TestProposeIncident_RetrievalExhaustedStillCompletes(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetVectorError(errors.New("no vector index"))
	client.SetFullTextError(errors.New("no fulltext index"))
	client.SetLexicalError(errors.New("store unreachable"))
	completer := llm.NewMockCompletionClient(proposalJSON)

	p := newTestPipeline(client, completer)
	resp, err := p.ProposeIncident(context.Background(), "payments are failing")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Empty(t, resp.Documents)
	assert.True(t, resp.Retrieval.Exhausted)
	assert.Equal(t, retrieval.SourceNone, resp.Retrieval.Source)
	assert.Len(t, resp.Retrieval.Notes, 4)
}

func TestProposeIncident_ExpansionFailureDegrades(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetVectorResults([]graph.NodeRecord{
		{ID: "n1", Properties: map[string]any{"name": "Payment Service"}},
	})
	client.SetNeighborsError(errors.New("query timeout"))
	completer := llm.NewMockCompletionClient(proposalJSON)

	p := newTestPipeline(client, completer)
	resp, err := p.ProposeIncident(context.Background(), "payments are failing")
	require.NoError(t, err)

	assert.Empty(t, resp.GraphContext)
	require.Len(t, resp.Documents, 1)
}

func TestProposeIncident_NoDocumentsSkipsExpansion(t *testing.T) {
	client := graph.NewMockGraphClient()
	completer := llm.NewMockCompletionClient(proposalJSON)

	p := newTestPipeline(client, completer)
	resp, err := p.ProposeIncident(context.Background(), "something nobody indexed")
	require.NoError(t, err)

	assert.Empty(t, resp.GraphContext)
	assert.Equal(t, 0, client.CallCount("GetNeighbors"))
}

func TestProposeIncident_UnparsableLLMOutputIsSentinel(t *testing.T) {
	client := graph.NewMockGraphClient()
	completer := llm.NewMockCompletionClient("I could not find anything relevant.")

	p := newTestPipeline(client, completer)
	resp, err := p.ProposeIncident(context.Background(), "payments are failing")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.True(t, resp.LLMProposal.IsSentinel())
	assert.Equal(t, "I could not find anything relevant.",
		resp.LLMProposal[incident.FieldText])

	// A sentinel still projects the default incident node.
	require.Len(t, resp.Graph.Nodes, 1)
	assert.Equal(t, incident.DefaultIncidentID, resp.Graph.Nodes[0].ID)
}

func TestProposeIncident_NeighborLimitPassedThrough(t *testing.T) {
	client := graph.NewMockGraphClient()
	client.SetVectorResults([]graph.NodeRecord{
		{ID: "n1", Properties: map[string]any{"name": "Payment Service"}},
	})
	completer := llm.NewMockCompletionClient(proposalJSON)

	retriever := retrieval.NewHybridRetriever(client, embedder.NewMockEmbedder(8), nil)
	assembler := prompt.NewAssembler(prompt.DefaultConfig())
	p := New(retriever, client, assembler, completer, Config{TopK: 5, NeighborLimit: 7}, nil)

	_, err := p.ProposeIncident(context.Background(), "payments")
	require.NoError(t, err)

	for _, call := range client.Calls() {
		if call.Method == "GetNeighbors" {
			assert.Equal(t, 7, call.Args[1])
			return
		}
	}
	t.Fatal("GetNeighbors was not called")
}
