package hash

import (
	"math"
)

// Compile-time check to ensure MIPS satisfies the VecHash interface.
var _ VecHash = (*MIPS)(nil)

// MIPS implements asymmetric LSH for maximum inner product search
// (Shrivastava & Li). Stored vectors and query vectors are embedded
// differently before being hashed with an L2 hasher over dim+m components:
//
//   - storage: x is rescaled by U (the input data is assumed normalized so
//     that the largest norm is at most 1), then ‖x‖², ‖x‖⁴, …, ‖x‖^(2^m)
//     are appended;
//   - query: q is normalized to unit norm, then m components of 1/2 are
//     appended.
//
// Under these embeddings, collision probability grows with the inner
// product ⟨x, q⟩ rather than with a symmetric distance.
type MIPS struct {
	u      float32
	m      int
	dim    int
	hasher *L2
}

// NewMIPS creates a new asymmetric MIPS hasher. U must lie in (0,1) and m
// is the number of appended transform terms.
func NewMIPS(dim int, r, u float32, m, nProjections int, seed uint64) (*MIPS, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}
	if u <= 0 || u >= 1 {
		return nil, &ErrInvalidParameter{Name: "U", Value: float64(u)}
	}
	if m <= 0 {
		return nil, &ErrInvalidParameter{Name: "m", Value: float64(m)}
	}

	hasher, err := NewL2(dim+m, r, nProjections, seed)
	if err != nil {
		return nil, err
	}

	return &MIPS{u: u, m: m, dim: dim, hasher: hasher}, nil
}

// HashVecPut hashes a vector for storage using the storage-side embedding.
func (p *MIPS) HashVecPut(v []float32) Signature {
	return p.hasher.hash(p.transformPut(v))
}

// HashVecQuery hashes a vector for probing using the query-side embedding.
func (p *MIPS) HashVecQuery(v []float32) Signature {
	return p.hasher.hash(p.transformQuery(v))
}

// Dim returns the input dimensionality the hasher was built for. This is
// the dimensionality before the asymmetric transform extends it.
func (p *MIPS) Dim() int { return p.dim }

func (p *MIPS) transformPut(v []float32) []float32 {
	x := make([]float32, p.dim, p.dim+p.m)
	for i, val := range v {
		x[i] = val * p.u
	}

	norm2 := dot(x, x)
	for i := 0; i < p.m; i++ {
		x = append(x, norm2)
		norm2 *= norm2
	}
	return x
}

func (p *MIPS) transformQuery(v []float32) []float32 {
	x := make([]float32, p.dim, p.dim+p.m)
	copy(x, v)

	if norm := float32(math.Sqrt(float64(dot(x, x)))); norm > 0 {
		for i := range x {
			x[i] /= norm
		}
	}

	for i := 0; i < p.m; i++ {
		x = append(x, 0.5)
	}
	return x
}
