package embedder

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/incidentops/graphmind/internal/types"
)

// MockEmbedder is a deterministic in-memory Embedder for testing.
// Identical texts always produce identical vectors.
type MockEmbedder struct {
	mu         sync.RWMutex
	dimensions int
	embedError error
	fixed      map[string][]float64
	calls      []string
}

// NewMockEmbedder creates a mock embedder producing vectors of the given dimensionality.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 8
	}
	return &MockEmbedder{
		dimensions: dimensions,
		fixed:      make(map[string][]float64),
	}
}

// SetEmbedError configures Embed to fail.
func (m *MockEmbedder) SetEmbedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedError = err
}

// SetVector pins the vector returned for an exact text.
func (m *MockEmbedder) SetVector(text string, vector []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed[text] = vector
}

// Calls returns the texts passed to Embed, in order.
func (m *MockEmbedder) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Embed returns a deterministic pseudo-embedding derived from the text hash.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, text)

	if m.embedError != nil {
		return nil, m.embedError
	}
	if vector, ok := m.fixed[text]; ok {
		return vector, nil
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vector := make([]float64, m.dimensions)
	for i := range vector {
		seed = seed*6364136223846793005 + 1442695040888963407
		vector[i] = float64(int64(seed%2000)-1000) / 1000.0
	}
	return vector, nil
}

// Dimensions returns the configured dimensionality.
func (m *MockEmbedder) Dimensions() int {
	return m.dimensions
}

// Model returns the mock model name.
func (m *MockEmbedder) Model() string {
	return "mock-embedder"
}

// Health always reports healthy unless an embed error is configured.
func (m *MockEmbedder) Health(ctx context.Context) types.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.embedError != nil {
		return types.Degraded("configured to fail")
	}
	return types.Healthy("mock embedder")
}
