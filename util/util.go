// Package util provides small helpers for generating test and benchmark
// data.
package util

import (
	"math"
	"math/rand"
)

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// GenerateRandomVectors generates random vectors with components in [0,1).
func (r *RNG) GenerateRandomVectors(num int, dimensions int) [][]float32 {
	vectors := make([][]float32, num)
	for i := range vectors {
		vectors[i] = make([]float32, dimensions)
		for j := range vectors[i] {
			vectors[i][j] = r.rand.Float32()
		}
	}

	return vectors
}

// GenerateUnitVectors generates random vectors of unit L2 norm, useful for
// exercising the angular and inner-product hash families.
func (r *RNG) GenerateUnitVectors(num int, dimensions int) [][]float32 {
	vectors := make([][]float32, num)
	for i := range vectors {
		v := make([]float32, dimensions)

		var norm2 float64
		for j := range v {
			v[j] = float32(r.rand.NormFloat64())
			norm2 += float64(v[j]) * float64(v[j])
		}

		if norm := float32(math.Sqrt(norm2)); norm > 0 {
			for j := range v {
				v[j] /= norm
			}
		}

		vectors[i] = v
	}

	return vectors
}

// Perturb returns a copy of v with uniform noise of magnitude eps added to
// every component.
func (r *RNG) Perturb(v []float32, eps float32) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = f + (r.rand.Float32()*2-1)*eps
	}
	return out
}
