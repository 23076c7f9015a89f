package hash

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureKey(t *testing.T) {
	t.Run("EqualSignaturesEqualKeys", func(t *testing.T) {
		a := Signature{1, -2, 3}
		b := Signature{1, -2, 3}

		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("DistinctSignaturesDistinctKeys", func(t *testing.T) {
		a := Signature{1, -2, 3}
		b := Signature{1, 2, 3}

		assert.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("KeyLength", func(t *testing.T) {
		assert.Len(t, Signature{1, 2, 3}.Key(), 12)
	})
}

func TestSRP(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		h, err := NewSRP(5, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, h.Dim())
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := NewSRP(5, 0, 1)
		require.Error(t, err)
		assert.IsType(t, &ErrInvalidDimension{}, err)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := NewSRP(8, 4, 42)
		require.NoError(t, err)
		b, err := NewSRP(8, 4, 42)
		require.NoError(t, err)

		v := []float32{0.5, -1.5, 2.0, 0.25}
		assert.Equal(t, a.HashVecPut(v), b.HashVecPut(v))
		assert.Equal(t, a.HashVecQuery(v), b.HashVecQuery(v))
	})

	t.Run("Symmetric", func(t *testing.T) {
		h, err := NewSRP(8, 4, 42)
		require.NoError(t, err)

		v := []float32{0.5, -1.5, 2.0, 0.25}
		assert.Equal(t, h.HashVecPut(v), h.HashVecQuery(v))
	})

	t.Run("SignatureLength", func(t *testing.T) {
		h, err := NewSRP(8, 4, 42)
		require.NoError(t, err)

		assert.Len(t, h.HashVecPut([]float32{1, 2, 3, 4}), 8)
	})

	t.Run("ScaleInvariant", func(t *testing.T) {
		// Scaling a vector never changes which side of a hyperplane it is on.
		h, err := NewSRP(16, 3, 7)
		require.NoError(t, err)

		v := []float32{2, 3, 4}
		scaled := []float32{20, 30, 40}
		assert.Equal(t, h.HashVecPut(v), h.HashVecPut(scaled))
	})
}

func TestL2(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		h, err := NewL2(3, 4.0, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, h.Dim())
	})

	t.Run("InvalidR", func(t *testing.T) {
		_, err := NewL2(3, 0, 5, 1)
		require.Error(t, err)
		assert.IsType(t, &ErrInvalidParameter{}, err)
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := NewL2(0, 4.0, 5, 1)
		require.Error(t, err)
		assert.IsType(t, &ErrInvalidDimension{}, err)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := NewL2(4, 2.0, 8, 42)
		require.NoError(t, err)
		b, err := NewL2(4, 2.0, 8, 42)
		require.NoError(t, err)

		v := []float32{0.5, -1.5, 2.0, 0.25}
		assert.Equal(t, a.HashVecPut(v), b.HashVecPut(v))
	})

	t.Run("NearbyVectorsCollide", func(t *testing.T) {
		// With a generous bucket width, tiny perturbations hash identically.
		h, err := NewL2(3, 100.0, 5, 1)
		require.NoError(t, err)

		a := []float32{1, 2, 3}
		b := []float32{1.001, 2.001, 3.001}
		assert.Equal(t, h.HashVecPut(a), h.HashVecPut(b))
	})
}

func TestMIPS(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		h, err := NewMIPS(3, 4.0, 0.83, 3, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, h.Dim())
	})

	t.Run("InvalidU", func(t *testing.T) {
		for _, u := range []float32{0, 1, -0.5, 1.5} {
			_, err := NewMIPS(3, 4.0, u, 3, 5, 1)
			require.Error(t, err)
			assert.IsType(t, &ErrInvalidParameter{}, err)
		}
	})

	t.Run("InvalidM", func(t *testing.T) {
		_, err := NewMIPS(3, 4.0, 0.83, 0, 5, 1)
		require.Error(t, err)
	})

	t.Run("Asymmetric", func(t *testing.T) {
		// The storage and query embeddings differ, so the two hash entry
		// points are distinct functions of the same input.
		h, err := NewMIPS(3, 0.5, 0.83, 3, 16, 42)
		require.NoError(t, err)

		v := []float32{0.3, -0.2, 0.1}
		assert.NotEqual(t, h.HashVecPut(v), h.HashVecQuery(v))
	})

	t.Run("SignatureLength", func(t *testing.T) {
		h, err := NewMIPS(3, 4.0, 0.83, 3, 5, 1)
		require.NoError(t, err)

		assert.Len(t, h.HashVecPut([]float32{1, 2, 3}), 5)
		assert.Len(t, h.HashVecQuery([]float32{1, 2, 3}), 5)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := NewMIPS(3, 4.0, 0.83, 3, 5, 42)
		require.NoError(t, err)
		b, err := NewMIPS(3, 4.0, 0.83, 3, 5, 42)
		require.NoError(t, err)

		v := []float32{0.3, -0.2, 0.1}
		assert.Equal(t, a.HashVecPut(v), b.HashVecPut(v))
		assert.Equal(t, a.HashVecQuery(v), b.HashVecQuery(v))
	})
}

func TestGobRoundTrip(t *testing.T) {
	v := []float32{0.5, -1.5, 2.0}

	t.Run("SRP", func(t *testing.T) {
		orig, err := NewSRP(8, 3, 42)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, gob.NewEncoder(&buf).Encode(orig))

		decoded := &SRP{}
		require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

		assert.Equal(t, orig.Dim(), decoded.Dim())
		assert.Equal(t, orig.HashVecPut(v), decoded.HashVecPut(v))
	})

	t.Run("L2", func(t *testing.T) {
		orig, err := NewL2(3, 2.0, 8, 42)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, gob.NewEncoder(&buf).Encode(orig))

		decoded := &L2{}
		require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

		assert.Equal(t, orig.HashVecPut(v), decoded.HashVecPut(v))
	})

	t.Run("MIPS", func(t *testing.T) {
		orig, err := NewMIPS(3, 0.5, 0.83, 3, 8, 42)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, gob.NewEncoder(&buf).Encode(orig))

		decoded := &MIPS{}
		require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

		assert.Equal(t, orig.HashVecPut(v), decoded.HashVecPut(v))
		assert.Equal(t, orig.HashVecQuery(v), decoded.HashVecQuery(v))
	})
}
