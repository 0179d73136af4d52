package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	out := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(out[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(out[1]), 1e-6)

	var norm float64
	for _, v := range out {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)

	// Zero vector stays zero.
	zero := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(sim), 1e-6)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, float64(sim), 1e-6)

	_, err = CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
	assert.Error(t, err)

	_, err = CosineSimilarity(nil, []float32{1})
	assert.Error(t, err)
}

func TestDotEqualsCosineForNormalizedVectors(t *testing.T) {
	a := Normalize([]float32{2, 5, 1})
	b := Normalize([]float32{4, 0, 3})

	sim, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, float64(sim), float64(Dot(a, b)), 1e-6)
}
