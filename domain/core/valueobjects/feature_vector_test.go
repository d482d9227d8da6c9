package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "paperdesk-backend/pkg/errors"
)

func TestCosineSimilarity_IdenticalVectors(t *testing.T) {
	v := NewFeatureVector([]float64{0.1, 0.2, 0.3, 0.4, 0.5})

	score, err := v.CosineSimilarity(v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	a := NewFeatureVector([]float64{1, 0, 0})
	b := NewFeatureVector([]float64{0, 1, 0})

	score, err := a.CosineSimilarity(b)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestCosineSimilarity_OppositeVectors(t *testing.T) {
	a := NewFeatureVector([]float64{1, 2, 3})
	b := NewFeatureVector([]float64{-1, -2, -3})

	score, err := a.CosineSimilarity(b)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, score, 1e-9)
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := NewFeatureVector([]float64{0.3, 0.1, 0.7, 0.2})
	b := NewFeatureVector([]float64{0.9, 0.4, 0.1, 0.6})

	ab, err := a.CosineSimilarity(b)
	require.NoError(t, err)
	ba, err := b.CosineSimilarity(a)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-12)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	a := NewFeatureVector([]float64{1, 2, 3})
	b := NewFeatureVector([]float64{1, 2})

	_, err := a.CosineSimilarity(b)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDimensionMismatch(err))
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	zero := NewFeatureVector([]float64{0, 0, 0})
	v := NewFeatureVector([]float64{1, 2, 3})

	score, err := zero.CosineSimilarity(v)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
	assert.False(t, math.IsNaN(score))

	score, err = v.CosineSimilarity(zero)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCosineSimilarity_EmptyVectors(t *testing.T) {
	a := NewFeatureVector(nil)
	b := NewFeatureVector([]float64{})

	score, err := a.CosineSimilarity(b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestFeatureVector_Immutable(t *testing.T) {
	source := []float64{1, 2, 3}
	v := NewFeatureVector(source)

	source[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, v.Values())

	out := v.Values()
	out[1] = 99
	assert.Equal(t, []float64{1, 2, 3}, v.Values())
}

func TestFeatureVector_Norm(t *testing.T) {
	v := NewFeatureVector([]float64{3, 4})
	assert.InDelta(t, 5.0, v.Norm(), 1e-12)
	assert.False(t, v.IsZero())

	assert.True(t, NewFeatureVector([]float64{0, 0}).IsZero())
	assert.True(t, NewFeatureVector(nil).IsZero())
}
