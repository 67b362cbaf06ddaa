// Package vector provides the similarity calculations used by the retriever.
package vector

import (
	"fmt"
	"math"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
// Accumulates in float64 to limit rounding drift on long vectors.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm calculates the Euclidean (L2) norm of a vector.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Cosine calculates the cosine similarity between two vectors.
//
// A zero vector can never be judged similar: when either norm is exactly
// zero the result is 0, not NaN and not an error. Mismatched lengths are
// a caller bug and fail with domain.ErrDimensionMismatch rather than
// silently truncating.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return Dot(a, b) / (normA * normB), nil
}
