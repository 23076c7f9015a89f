package hash

import (
	"math"

	"github.com/hupe1980/lshgo/internal/rng"
)

// Compile-time check to ensure L2 satisfies the VecHash interface.
var _ VecHash = (*L2)(nil)

// L2 implements the Euclidean-distance LSH family of Datar et al.:
//
//	h(v) = floor((a·v + b) / r)
//
// with a drawn from a standard normal distribution and b uniform in [0, r).
// r is the bucket width: larger values make distant vectors more likely to
// collide.
type L2 struct {
	a   [][]float32
	b   []float32
	r   float32
	dim int
}

// NewL2 creates a new Euclidean LSH hasher.
func NewL2(dim int, r float32, nProjections int, seed uint64) (*L2, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}
	if nProjections <= 0 {
		return nil, &ErrInvalidParameter{Name: "nProjections", Value: float64(nProjections)}
	}
	if r <= 0 {
		return nil, &ErrInvalidParameter{Name: "r", Value: float64(r)}
	}

	rnd := rng.New(seed)

	a := make([][]float32, nProjections)
	for i := range a {
		row := make([]float32, dim)
		for j := range row {
			row[j] = float32(rnd.NormFloat64())
		}
		a[i] = row
	}

	b := make([]float32, nProjections)
	for i := range b {
		b[i] = float32(rnd.Float64()) * r
	}

	return &L2{a: a, b: b, r: r, dim: dim}, nil
}

// HashVecPut hashes a vector for storage.
func (l *L2) HashVecPut(v []float32) Signature {
	return l.hash(v)
}

// HashVecQuery hashes a vector for probing. L2 is symmetric, so this is
// the same function as HashVecPut.
func (l *L2) HashVecQuery(v []float32) Signature {
	return l.hash(v)
}

// Dim returns the input dimensionality the hasher was built for.
func (l *L2) Dim() int { return l.dim }

func (l *L2) hash(v []float32) Signature {
	sig := make(Signature, len(l.a))
	for i, row := range l.a {
		sig[i] = int32(math.Floor(float64((dot(row, v) + l.b[i]) / l.r)))
	}
	return sig
}
