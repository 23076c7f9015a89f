package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.GenerateRandomVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.LessOrEqual(t, v[0][0], float32(1.0))
	assert.GreaterOrEqual(t, v[1][0], float32(0.0))
}

func TestGenerateUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	for _, v := range rng.GenerateUnitVectors(8, 32) {
		var norm2 float64
		for _, f := range v {
			norm2 += float64(f) * float64(f)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm2), 1e-4)
	}
}

func TestPerturb(t *testing.T) {
	rng := NewRNG(4711)

	v := []float32{1, 2, 3}
	p := rng.Perturb(v, 0.1)

	assert.Len(t, p, 3)
	for i := range v {
		assert.InDelta(t, v[i], p[i], 0.1)
	}
}
