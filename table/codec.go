package table

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeVector packs a float32 vector into little-endian bytes. The
// encoding is canonical (no length prefix, fixed 4 bytes per component),
// so it doubles as the value-equality key for the point store and as the
// BLOB representation in the sqlite backend.
func encodeVector(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

// decodeVector unpacks a little-endian byte slice produced by encodeVector.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("malformed vector blob: %d bytes", len(b))
	}

	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// pointKey returns the value-equality key of a vector.
func pointKey(v []float32) string {
	return string(encodeVector(v))
}
