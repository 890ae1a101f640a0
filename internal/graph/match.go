package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// maxMatchDepth guards recursion into nested property maps. Graph stores bound
// property nesting by schema, so this limit is never hit in practice.
const maxMatchDepth = 32

// NodeMatches reports whether any property value of the node contains the
// lower-cased query substring. Keys are not matched, only values.
func NodeMatches(props map[string]any, queryLower string) bool {
	if queryLower == "" {
		return false
	}
	for _, value := range props {
		if MatchesQuery(value, queryLower) {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether an arbitrary typed property value textually
// contains queryLower. Strings match case-insensitively; numbers and booleans
// are stringified first; lists match if any element matches; nested maps are
// searched recursively. Nil never matches, and unknown types are stringified
// best-effort. The first match short-circuits.
func MatchesQuery(value any, queryLower string) bool {
	return matchValue(value, queryLower, 0)
}

func matchValue(value any, queryLower string, depth int) bool {
	if value == nil || depth > maxMatchDepth {
		return false
	}

	switch v := value.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), queryLower)
	case bool:
		return strings.Contains(strconv.FormatBool(v), queryLower)
	case int:
		return strings.Contains(strconv.Itoa(v), queryLower)
	case int64:
		return strings.Contains(strconv.FormatInt(v, 10), queryLower)
	case float64:
		return strings.Contains(strings.ToLower(strconv.FormatFloat(v, 'g', -1, 64)), queryLower)
	case []any:
		for _, item := range v {
			if matchValue(item, queryLower, depth+1) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range v {
			if strings.Contains(strings.ToLower(item), queryLower) {
				return true
			}
		}
		return false
	case map[string]any:
		for _, nested := range v {
			if matchValue(nested, queryLower, depth+1) {
				return true
			}
		}
		return false
	default:
		return strings.Contains(strings.ToLower(stringify(v)), queryLower)
	}
}

// stringify renders an opaque value for substring matching. A panicking
// Stringer must not take the whole search down, hence the recover.
func stringify(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = ""
		}
	}()
	return fmt.Sprint(v)
}
