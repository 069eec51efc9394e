package vectormath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, v)
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"scaled", []float32{1, 1}, []float32{2, 2}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 1},
		{"zero", []float32{0, 0}, []float32{1, 0}, 1},
		{"empty", nil, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineDistance(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosineDistance_Diagonal(t *testing.T) {
	d := CosineDistance([]float32{1, 0}, []float32{1, 1})
	assert.InDelta(t, 1-1/math.Sqrt2, d, 1e-6)
}

func TestTopK(t *testing.T) {
	scored := []Scored{{0, 0.5}, {1, 0.1}, {2, 0.9}, {3, 0.1}}

	top := TopK(scored, 3)

	assert.Equal(t, []Scored{{1, 0.1}, {3, 0.1}, {0, 0.5}}, top)
}

func TestTopK_KLargerThanInput(t *testing.T) {
	top := TopK([]Scored{{0, 0.2}, {1, 0.1}}, 10)
	assert.Len(t, top, 2)
	assert.Equal(t, 1, top[0].Index)
}
