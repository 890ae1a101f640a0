package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthStatus_Constructors(t *testing.T) {
	h := Healthy("all good")
	assert.Equal(t, HealthStateHealthy, h.State)
	assert.False(t, h.IsDegraded())
	assert.False(t, h.CheckedAt.IsZero())

	d := Degraded("vector index missing")
	assert.True(t, d.IsDegraded())

	u := Unhealthy("store down")
	assert.True(t, u.IsUnhealthy())
	assert.Equal(t, "store down", u.Message)
}

func TestHealthStatus_MarshalsStateAsString(t *testing.T) {
	data, err := json.Marshal(Degraded("no embedder"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"degraded"`)
	assert.Contains(t, string(data), `"message":"no embedder"`)
}

func TestWorstState(t *testing.T) {
	assert.Equal(t, HealthStateHealthy, WorstState(nil))

	components := map[string]HealthStatus{
		"graph":    Healthy("connected"),
		"embedder": Healthy("operational"),
	}
	assert.Equal(t, HealthStateHealthy, WorstState(components))

	components["embedder"] = Degraded("not configured")
	assert.Equal(t, HealthStateDegraded, WorstState(components))

	components["graph"] = Unhealthy("connection refused")
	assert.Equal(t, HealthStateUnhealthy, WorstState(components))
}
