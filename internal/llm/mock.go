package llm

import (
	"context"
	"sync"

	"github.com/incidentops/graphmind/internal/types"
)

// MockCompletionClient is a configurable CompletionClient for testing.
// It records every prompt and returns canned responses in order.
type MockCompletionClient struct {
	mu            sync.Mutex
	responses     []string
	completeError error
	prompts       []string
}

// NewMockCompletionClient creates a mock that returns the given responses in
// order, repeating the last one once exhausted.
func NewMockCompletionClient(responses ...string) *MockCompletionClient {
	return &MockCompletionClient{responses: responses}
}

// SetCompleteError configures Complete to fail.
func (m *MockCompletionClient) SetCompleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeError = err
}

// Prompts returns all prompts passed to Complete, in order.
func (m *MockCompletionClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Name returns the mock provider name.
func (m *MockCompletionClient) Name() string {
	return "mock"
}

// Complete records the prompt and returns the next canned response.
func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)

	if m.completeError != nil {
		return "", m.completeError
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	response := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return response, nil
}

// Health reports healthy unless an error is configured.
func (m *MockCompletionClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completeError != nil {
		return types.Unhealthy("configured to fail")
	}
	return types.Healthy("mock completion client")
}
