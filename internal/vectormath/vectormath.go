// Package vectormath provides the float32 vector helpers shared by the
// embedding batcher and the vector stores.
package vectormath

import (
	"math"
	"sort"
)

// Normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		v[i] = float32(float64(x) / norm)
	}
	return v
}

// CosineDistance returns 1 - cos(a, b). Vectors of different length, or
// with zero magnitude, are at distance 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// Scored is a candidate index with its distance to the query.
type Scored struct {
	Index    int
	Distance float64
}

// TopK returns the k candidates with the smallest distance, ascending.
// Ties keep their original order.
func TopK(scored []Scored, k int) []Scored {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
