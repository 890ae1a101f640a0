package embedder

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder(8)
	ctx := context.Background()

	a, err := m.Embed(ctx, "payment outage")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "payment outage")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 8)
}

func TestMockEmbedder_DistinctTexts(t *testing.T) {
	m := NewMockEmbedder(8)
	ctx := context.Background()

	a, _ := m.Embed(ctx, "payment outage")
	b, _ := m.Embed(ctx, "auth outage")
	assert.NotEqual(t, a, b)
}

func TestMockEmbedder_FixedVector(t *testing.T) {
	m := NewMockEmbedder(3)
	m.SetVector("pinned", []float64{1, 0, 0})

	v, err := m.Embed(context.Background(), "pinned")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, v)
}

func TestMockEmbedder_EmbedError(t *testing.T) {
	m := NewMockEmbedder(4)
	m.SetEmbedError(fmt.Errorf("provider down"))

	_, err := m.Embed(context.Background(), "text")
	assert.Error(t, err)
	assert.True(t, m.Health(context.Background()).IsDegraded())
}

func TestConfig_Validate(t *testing.T) {
	// Disabled embedder is valid configuration.
	empty := Config{}
	assert.False(t, empty.Enabled())
	assert.NoError(t, empty.Validate())

	cfg := DefaultConfig()
	assert.True(t, cfg.Enabled())
	// OpenAI without key is rejected.
	assert.Error(t, cfg.Validate())

	cfg.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg.Model = ""
	assert.Error(t, cfg.Validate())
}
