package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGraphClient_SearchLexical(t *testing.T) {
	client := NewMockGraphClient()
	paymentID := client.AddNode([]string{"Service"}, map[string]any{"name": "Payment Service"})
	client.AddNode([]string{"Service"}, map[string]any{"name": "Auth Service"})

	results, err := client.SearchLexical(context.Background(), "payment", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, paymentID, results[0].ID)
	assert.Equal(t, "Payment Service", results[0].Properties["name"])
}

func TestMockGraphClient_SearchLexicalStopsAtLimit(t *testing.T) {
	client := NewMockGraphClient()
	for i := 0; i < 10; i++ {
		client.AddNode([]string{"Service"}, map[string]any{"name": "payment"})
	}

	results, err := client.SearchLexical(context.Background(), "payment", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestMockGraphClient_GetNeighbors(t *testing.T) {
	client := NewMockGraphClient()
	client.AddEdge(NeighborEdge{
		SourceID:     "node-1",
		TargetID:     "node-2",
		RelationType: "DEPENDS_ON",
		Direction:    "outgoing",
	})
	client.AddEdge(NeighborEdge{
		SourceID:     "node-9",
		TargetID:     "node-2",
		RelationType: "OWNED_BY",
	})

	edges, err := client.GetNeighbors(context.Background(), []string{"node-1"}, 50)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "DEPENDS_ON", edges[0].RelationType)
}

func TestMockGraphClient_GetNeighborsEmptyInput(t *testing.T) {
	client := NewMockGraphClient()
	client.AddEdge(NeighborEdge{SourceID: "node-1", TargetID: "node-2", RelationType: "X"})

	edges, err := client.GetNeighbors(context.Background(), nil, 50)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestMockGraphClient_RecordsCalls(t *testing.T) {
	client := NewMockGraphClient()
	_ = client.Connect(context.Background())
	_, _ = client.SearchFullText(context.Background(), "q", 5)
	_, _ = client.SearchFullText(context.Background(), "q2", 5)

	assert.Equal(t, 1, client.CallCount("Connect"))
	assert.Equal(t, 2, client.CallCount("SearchFullText"))
	assert.Equal(t, 0, client.CallCount("SearchVector"))
}

func TestMockGraphClient_MergeNodeIsIdempotent(t *testing.T) {
	client := NewMockGraphClient()
	ctx := context.Background()

	first, err := client.MergeNode(ctx, "Service", "checkout")
	require.NoError(t, err)
	second, err := client.MergeNode(ctx, "Service", "checkout")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNodeRecord_ContentText(t *testing.T) {
	rec := NodeRecord{Properties: map[string]any{
		"title":   "runbook title",
		"content": "full body",
	}}
	assert.Equal(t, "full body", rec.ContentText())

	rec2 := NodeRecord{Properties: map[string]any{"name": "Payment Service"}}
	assert.Equal(t, "Payment Service", rec2.ContentText())

	rec3 := NodeRecord{Properties: map[string]any{"count": 3}}
	assert.Equal(t, "", rec3.ContentText())
}

func TestGraphClientConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.URI = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.CandidateLimit = 0
	assert.Error(t, bad.Validate())
}
