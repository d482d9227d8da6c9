package valueobjects

import (
	"math"

	pkgerrors "paperdesk-backend/pkg/errors"
)

// FeatureVector is a fixed-length numeric embedding of a document,
// used for content-based similarity ranking.
type FeatureVector struct {
	values []float64
	norm   float64 // pre-computed L2 norm
}

// NewFeatureVector creates a feature vector from the given values.
// The slice is copied so the vector stays immutable.
func NewFeatureVector(values []float64) FeatureVector {
	copied := make([]float64, len(values))
	copy(copied, values)

	var sum float64
	for _, x := range copied {
		sum += x * x
	}

	return FeatureVector{
		values: copied,
		norm:   math.Sqrt(sum),
	}
}

// Values returns a copy of the vector components
func (v FeatureVector) Values() []float64 {
	copied := make([]float64, len(v.values))
	copy(copied, v.values)
	return copied
}

// Dimension returns the number of components
func (v FeatureVector) Dimension() int {
	return len(v.values)
}

// Norm returns the L2 norm of the vector
func (v FeatureVector) Norm() float64 {
	return v.norm
}

// IsZero reports whether the vector is empty or has zero magnitude
func (v FeatureVector) IsZero() bool {
	return v.norm == 0
}

// CosineSimilarity computes the cosine similarity between two vectors:
// dot(a,b) / (|a|*|b|). Vectors of unequal dimension produce a
// dimension-mismatch error. A zero-magnitude vector on either side yields
// 0 rather than NaN, keeping similarity ranking total and stable.
func (v FeatureVector) CosineSimilarity(other FeatureVector) (float64, error) {
	if len(v.values) != len(other.values) {
		return 0, pkgerrors.NewDimensionMismatchError(len(v.values), len(other.values))
	}

	if v.norm == 0 || other.norm == 0 {
		return 0, nil
	}

	var dot float64
	for i := range v.values {
		dot += v.values[i] * other.values[i]
	}

	return dot / (v.norm * other.norm), nil
}
