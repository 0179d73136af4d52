package utils

import (
	"fmt"
	"math"
)

// Dot returns the dot product of two vectors. For L2-normalized vectors this
// equals their cosine similarity.
func Dot(vec1, vec2 []float32) float32 {
	var product float32
	for i := range vec1 {
		product += vec1[i] * vec2[i]
	}
	return product
}

// magnitude calculates the L2 norm (magnitude) of a vector.
func magnitude(vec []float32) float32 {
	var sumOfSquares float32
	for _, val := range vec {
		sumOfSquares += val * val
	}
	return float32(math.Sqrt(float64(sumOfSquares)))
}

// Normalize returns a copy of the vector scaled to unit length. A zero
// vector is returned unchanged.
func Normalize(vec []float32) []float32 {
	mag := magnitude(vec)
	out := make([]float32, len(vec))
	if mag == 0 {
		copy(out, vec)
		return out
	}
	for i, val := range vec {
		out[i] = val / mag
	}
	return out
}

// CosineSimilarity calculates the cosine similarity between two vectors.
func CosineSimilarity(vec1, vec2 []float32) (float32, error) {
	if len(vec1) == 0 || len(vec2) == 0 {
		return 0, fmt.Errorf("vectors cannot be empty")
	}
	if len(vec1) != len(vec2) {
		return 0, fmt.Errorf("vectors must have the same dimension")
	}

	mag1 := magnitude(vec1)
	mag2 := magnitude(vec2)
	if mag1 == 0 || mag2 == 0 {
		return 0, nil
	}

	return Dot(vec1, vec2) / (mag1 * mag2), nil
}
