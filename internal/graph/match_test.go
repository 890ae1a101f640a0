package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesQuery_StringCaseInsensitive(t *testing.T) {
	assert.True(t, MatchesQuery("Payment Service", "payment"))
	assert.True(t, MatchesQuery("PAYMENT SERVICE", "payment"))
	assert.False(t, MatchesQuery("Auth Service", "payment"))
}

func TestMatchesQuery_CaseEquivalence(t *testing.T) {
	// Matching "PAYMENT" must be equivalent to matching "payment" once the
	// caller lower-cases the query.
	values := []any{"Payment Service", 42, true, []any{"payment gateway"}}
	for _, v := range values {
		upper := MatchesQuery(v, strings.ToLower("PAYMENT"))
		lower := MatchesQuery(v, "payment")
		assert.Equal(t, lower, upper)
	}
}

func TestMatchesQuery_Numbers(t *testing.T) {
	assert.True(t, MatchesQuery(42, "42"))
	assert.True(t, MatchesQuery(int64(1042), "42"))
	assert.True(t, MatchesQuery(3.14, "3.14"))
	assert.False(t, MatchesQuery(7, "42"))
}

func TestMatchesQuery_Booleans(t *testing.T) {
	assert.True(t, MatchesQuery(true, "true"))
	assert.True(t, MatchesQuery(false, "false"))
	assert.False(t, MatchesQuery(true, "false"))
}

func TestMatchesQuery_Lists(t *testing.T) {
	assert.True(t, MatchesQuery([]any{"alpha", "Payment", "omega"}, "payment"))
	assert.True(t, MatchesQuery([]string{"alpha", "Payment"}, "payment"))
	assert.True(t, MatchesQuery([]any{1, 2, 42}, "42"))
	assert.False(t, MatchesQuery([]any{}, "payment"))
}

func TestMatchesQuery_NestedMaps(t *testing.T) {
	props := map[string]any{
		"metadata": map[string]any{
			"owner": map[string]any{
				"team": "Payments Squad",
			},
		},
	}
	assert.True(t, MatchesQuery(props, "payments"))
	// Keys are not matched, only values.
	assert.False(t, MatchesQuery(map[string]any{"payment": "other"}, "payment"))
}

func TestMatchesQuery_NilNeverMatches(t *testing.T) {
	assert.False(t, MatchesQuery(nil, "anything"))
}

func TestMatchesQuery_DepthGuard(t *testing.T) {
	// Build a map nested beyond the guard; must return false, not overflow.
	deepest := map[string]any{"leaf": "payment"}
	current := deepest
	for i := 0; i < maxMatchDepth+5; i++ {
		current = map[string]any{"next": current}
	}
	assert.False(t, MatchesQuery(current, "payment"))
}

type panickyStringer struct{}

func (panickyStringer) String() string { panic("boom") }

func TestMatchesQuery_OpaqueTypeNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.False(t, MatchesQuery(panickyStringer{}, "boom"))
	})
}

func TestNodeMatches(t *testing.T) {
	props := map[string]any{
		"name":   "Payment Service",
		"region": "eu-west-1",
	}
	assert.True(t, NodeMatches(props, "payment"))
	assert.True(t, NodeMatches(props, "eu-west"))
	assert.False(t, NodeMatches(props, "billing"))
	assert.False(t, NodeMatches(props, ""))
}
