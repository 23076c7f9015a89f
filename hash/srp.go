package hash

import (
	"github.com/hupe1980/lshgo/internal/rng"
)

// Compile-time check to ensure SRP satisfies the VecHash interface.
var _ VecHash = (*SRP)(nil)

// SRP implements sign random projections, an LSH family for cosine/angular
// similarity. Each projection is a random hyperplane with components drawn
// from a standard normal distribution; the hash records on which side of
// the hyperplane the vector falls.
type SRP struct {
	planes [][]float32
	dim    int
}

// NewSRP creates a new sign random projections hasher.
func NewSRP(nProjections, dim int, seed uint64) (*SRP, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}
	if nProjections <= 0 {
		return nil, &ErrInvalidParameter{Name: "nProjections", Value: float64(nProjections)}
	}

	r := rng.New(seed)

	planes := make([][]float32, nProjections)
	for i := range planes {
		p := make([]float32, dim)
		for j := range p {
			p[j] = float32(r.NormFloat64())
		}
		planes[i] = p
	}

	return &SRP{planes: planes, dim: dim}, nil
}

// HashVecPut hashes a vector for storage.
func (s *SRP) HashVecPut(v []float32) Signature {
	return s.hash(v)
}

// HashVecQuery hashes a vector for probing. SRP is symmetric, so this is
// the same function as HashVecPut.
func (s *SRP) HashVecQuery(v []float32) Signature {
	return s.hash(v)
}

// Dim returns the input dimensionality the hasher was built for.
func (s *SRP) Dim() int { return s.dim }

func (s *SRP) hash(v []float32) Signature {
	sig := make(Signature, len(s.planes))
	for i, p := range s.planes {
		if dot(p, v) >= 0 {
			sig[i] = 1
		}
	}
	return sig
}
