package retrieval

import "math"

// Cosine computes the cosine similarity between two equal-length vectors,
// in [-1, 1]. A zero-magnitude vector yields 0.0 rather than NaN, and
// mismatched lengths also yield 0.0: both mean "no usable similarity".
// Pure function, no side effects.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
