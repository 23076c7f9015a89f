// Package hash provides the locality-sensitive hash families used by the
// LSH index: sign random projections (cosine similarity), L2 (Euclidean
// distance) and MIPS (maximum inner product, via an asymmetric transform).
//
// A hasher turns a vector into a discrete Signature. Vectors whose
// signatures are equal under the same hasher land in the same bucket of
// that hasher's table.
package hash

import (
	"encoding/binary"
	"fmt"
)

// ErrInvalidDimension is a named error type for an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

// Error returns the error message for an invalid dimension.
func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrInvalidParameter is a named error type for an out-of-range hash
// family parameter.
type ErrInvalidParameter struct {
	Name  string
	Value float64
}

// Error returns the error message for an invalid parameter.
func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v", e.Name, e.Value)
}

// Signature is the hash output for one (vector, hasher) pair: one integer
// per projection. It identifies a bucket within a single hash table.
type Signature []int32

// Key returns the signature packed into a byte string, usable as a map key
// or a storage key. Two signatures have equal keys iff they are equal.
func (s Signature) Key() string {
	b := make([]byte, 4*len(s))
	for i, h := range s {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(h))
	}
	return string(b)
}

// VecHash is the capability interface of a hash family instance bound to
// one hash table.
//
// HashVecPut and HashVecQuery are separate operations because inner-product
// search needs an asymmetric scheme: stored vectors and query vectors are
// embedded differently before hashing. For the symmetric families (SRP, L2)
// both methods compute the same function.
type VecHash interface {
	// HashVecPut hashes a vector for storage.
	HashVecPut(v []float32) Signature

	// HashVecQuery hashes a vector for probing.
	HashVecQuery(v []float32) Signature

	// Dim returns the input dimensionality the hasher was built for.
	Dim() int
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
