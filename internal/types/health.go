package types

import "time"

// HealthState classifies a dependency check. Degraded means the pipeline can
// still answer with reduced context quality. Unhealthy means it cannot.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)

// HealthStatus is the result of a single component check.
type HealthStatus struct {
	State     HealthState `json:"state"`
	Message   string      `json:"message,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Healthy reports a passing check.
func Healthy(message string) HealthStatus {
	return HealthStatus{State: HealthStateHealthy, Message: message, CheckedAt: time.Now()}
}

// Degraded reports a check that passed with reduced capability, such as a
// missing vector index or an unconfigured embedder.
func Degraded(message string) HealthStatus {
	return HealthStatus{State: HealthStateDegraded, Message: message, CheckedAt: time.Now()}
}

// Unhealthy reports a failing check.
func Unhealthy(message string) HealthStatus {
	return HealthStatus{State: HealthStateUnhealthy, Message: message, CheckedAt: time.Now()}
}

// IsDegraded returns true if the status is degraded.
func (h HealthStatus) IsDegraded() bool {
	return h.State == HealthStateDegraded
}

// IsUnhealthy returns true if the status is unhealthy.
func (h HealthStatus) IsUnhealthy() bool {
	return h.State == HealthStateUnhealthy
}

// WorstState folds per-component statuses into an overall state. Any
// unhealthy component wins over degraded, which wins over healthy. An empty
// map is healthy.
func WorstState(components map[string]HealthStatus) HealthState {
	overall := HealthStateHealthy
	for _, status := range components {
		switch status.State {
		case HealthStateUnhealthy:
			return HealthStateUnhealthy
		case HealthStateDegraded:
			overall = HealthStateDegraded
		}
	}
	return overall
}
