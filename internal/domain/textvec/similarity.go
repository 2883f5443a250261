package textvec

import "math"

// SimilarityFunc scores two vectors of equal length.
type SimilarityFunc func(a, b []float64) float64

// Cosine returns dot(a,b)/(|a||b|), or 0 when the lengths differ or either
// vector has zero magnitude.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Norm is the Euclidean length of vec.
func Norm(vec []float64) float64 {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	return math.Sqrt(sum)
}
