package graph

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/incidentops/graphmind/internal/types"
)

// MockCall represents a recorded method call on the mock graph client.
type MockCall struct {
	Method    string
	Args      []any
	Timestamp time.Time
}

// MockGraphClient is a configurable in-memory implementation of GraphClient for
// testing. It stores nodes and relationships, answers the search operations from
// that state, and tracks all method calls for verification.
type MockGraphClient struct {
	mu sync.RWMutex

	// State
	connected     bool
	healthStatus  types.HealthStatus
	nodes         []NodeRecord
	relationships []NeighborEdge
	calls         []MockCall
	nextNodeID    int

	// Configurable responses
	fullTextResults []NodeRecord
	vectorResults   []NodeRecord
	queryResults    []QueryResult

	// Configurable errors
	connectError    error
	queryError      error
	fullTextError   error
	vectorError     error
	lexicalError    error
	neighborsError  error
	createNodeError error
	createRelError  error
}

// NewMockGraphClient creates a new mock graph client for testing.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{
		healthStatus:  types.Healthy("mock graph client"),
		nodes:         make([]NodeRecord, 0),
		relationships: make([]NeighborEdge, 0),
		calls:         make([]MockCall, 0),
		nextNodeID:    1,
	}
}

// AddNode seeds the mock with a node and returns its generated ID.
func (m *MockGraphClient) AddNode(labels []string, props map[string]any) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := fmt.Sprintf("node-%d", m.nextNodeID)
	m.nextNodeID++
	m.nodes = append(m.nodes, NodeRecord{ID: id, Labels: labels, Properties: props})
	return id
}

// AddEdge seeds the mock with a neighbor edge.
func (m *MockGraphClient) AddEdge(edge NeighborEdge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relationships = append(m.relationships, edge)
}

// SetFullTextResults configures the response of SearchFullText.
func (m *MockGraphClient) SetFullTextResults(records []NodeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fullTextResults = records
}

// SetVectorResults configures the response of SearchVector.
func (m *MockGraphClient) SetVectorResults(records []NodeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectorResults = records
}

// SetQueryResults configures responses returned by Query in order.
func (m *MockGraphClient) SetQueryResults(results []QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResults = results
}

// SetHealthStatus configures the response of Health.
func (m *MockGraphClient) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// SetConnectError configures Connect to fail.
func (m *MockGraphClient) SetConnectError(err error) { m.setErr(&m.connectError, err) }

// SetQueryError configures Query to fail.
func (m *MockGraphClient) SetQueryError(err error) { m.setErr(&m.queryError, err) }

// SetFullTextError configures SearchFullText to fail.
func (m *MockGraphClient) SetFullTextError(err error) { m.setErr(&m.fullTextError, err) }

// SetVectorError configures SearchVector to fail.
func (m *MockGraphClient) SetVectorError(err error) { m.setErr(&m.vectorError, err) }

// SetLexicalError configures SearchLexical to fail.
func (m *MockGraphClient) SetLexicalError(err error) { m.setErr(&m.lexicalError, err) }

// SetNeighborsError configures GetNeighbors to fail.
func (m *MockGraphClient) SetNeighborsError(err error) { m.setErr(&m.neighborsError, err) }

// SetCreateNodeError configures CreateNode and MergeNode to fail.
func (m *MockGraphClient) SetCreateNodeError(err error) { m.setErr(&m.createNodeError, err) }

// SetCreateRelationshipError configures CreateRelationship to fail.
func (m *MockGraphClient) SetCreateRelationshipError(err error) { m.setErr(&m.createRelError, err) }

func (m *MockGraphClient) setErr(target *error, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*target = err
}

// Calls returns all recorded method calls.
func (m *MockGraphClient) Calls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of calls recorded for the given method.
func (m *MockGraphClient) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, call := range m.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

func (m *MockGraphClient) record(method string, args ...any) {
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// Connect records the call and simulates connection.
func (m *MockGraphClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Connect")

	if m.connectError != nil {
		return m.connectError
	}
	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Close")
	m.connected = false
	return nil
}

// Health returns the configured health status.
func (m *MockGraphClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthStatus
}

// Query returns configured query results in order, then empty results.
func (m *MockGraphClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Query", cypher, params)

	if m.queryError != nil {
		return QueryResult{}, m.queryError
	}
	if len(m.queryResults) > 0 {
		result := m.queryResults[0]
		m.queryResults = m.queryResults[1:]
		return result, nil
	}
	return QueryResult{Records: []map[string]any{}}, nil
}

// SearchFullText returns configured results truncated to limit.
func (m *MockGraphClient) SearchFullText(ctx context.Context, query string, limit int) ([]NodeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchFullText", query, limit)

	if m.fullTextError != nil {
		return nil, m.fullTextError
	}
	return truncateRecords(m.fullTextResults, limit), nil
}

// SearchVector returns configured results truncated to k.
func (m *MockGraphClient) SearchVector(ctx context.Context, embedding []float64, k int) ([]NodeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchVector", embedding, k)

	if m.vectorError != nil {
		return nil, m.vectorError
	}
	return truncateRecords(m.vectorResults, k), nil
}

// SearchLexical filters seeded nodes with the shared property matcher,
// mirroring the real client's client-side filtering.
func (m *MockGraphClient) SearchLexical(ctx context.Context, query string, limit int) ([]NodeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchLexical", query, limit)

	if m.lexicalError != nil {
		return nil, m.lexicalError
	}

	queryLower := strings.ToLower(query)
	matched := make([]NodeRecord, 0, limit)
	for _, node := range m.nodes {
		if NodeMatches(node.Properties, queryLower) {
			matched = append(matched, node)
			if len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// GetNeighbors returns seeded edges whose source is in nodeIDs, up to limit.
func (m *MockGraphClient) GetNeighbors(ctx context.Context, nodeIDs []string, limit int) ([]NeighborEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetNeighbors", nodeIDs, limit)

	if m.neighborsError != nil {
		return nil, m.neighborsError
	}
	if len(nodeIDs) == 0 {
		return []NeighborEdge{}, nil
	}

	wanted := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		wanted[id] = true
	}

	edges := make([]NeighborEdge, 0)
	for _, edge := range m.relationships {
		if !wanted[edge.SourceID] {
			continue
		}
		edges = append(edges, edge)
		if len(edges) >= limit {
			break
		}
	}
	return edges, nil
}

// CreateNode stores the node and returns a generated element ID.
func (m *MockGraphClient) CreateNode(ctx context.Context, labels []string, props map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateNode", labels, props)

	if m.createNodeError != nil {
		return "", m.createNodeError
	}

	id := fmt.Sprintf("node-%d", m.nextNodeID)
	m.nextNodeID++
	m.nodes = append(m.nodes, NodeRecord{ID: id, Labels: labels, Properties: props})
	return id, nil
}

// MergeNode finds a seeded node by label and name or creates one.
func (m *MockGraphClient) MergeNode(ctx context.Context, label, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MergeNode", label, name)

	if m.createNodeError != nil {
		return "", m.createNodeError
	}

	for _, node := range m.nodes {
		if node.Properties["name"] == name {
			for _, l := range node.Labels {
				if l == label {
					return node.ID, nil
				}
			}
		}
	}

	id := fmt.Sprintf("node-%d", m.nextNodeID)
	m.nextNodeID++
	m.nodes = append(m.nodes, NodeRecord{
		ID:         id,
		Labels:     []string{label},
		Properties: map[string]any{"name": name},
	})
	return id, nil
}

// CreateRelationship stores the relationship as a neighbor edge.
func (m *MockGraphClient) CreateRelationship(ctx context.Context, fromID, toID, relType string, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateRelationship", fromID, toID, relType, props)

	if m.createRelError != nil {
		return m.createRelError
	}

	m.relationships = append(m.relationships, NeighborEdge{
		SourceID:     fromID,
		TargetID:     toID,
		RelationType: relType,
		Direction:    "outgoing",
		Properties:   props,
	})
	return nil
}

func truncateRecords(records []NodeRecord, limit int) []NodeRecord {
	if limit <= 0 || limit >= len(records) {
		out := make([]NodeRecord, len(records))
		copy(out, records)
		return out
	}
	out := make([]NodeRecord, limit)
	copy(out, records[:limit])
	return out
}
