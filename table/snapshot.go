package table

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zstd"
)

// Compile-time checks to ensure Memory satisfies the gob interfaces.
var (
	_ gob.GobEncoder = (*Memory)(nil)
	_ gob.GobDecoder = (*Memory)(nil)
)

// memorySnapshot is the serialized form of a Memory backend. Buckets are
// stored in roaring's portable binary format; the value-equality map is
// rebuilt on load.
type memorySnapshot struct {
	Points [][]float32
	Tables []map[string][]byte
}

// GobEncode method for Memory.
func (m *Memory) GobEncode() ([]byte, error) {
	snap := memorySnapshot{
		Points: m.points,
		Tables: make([]map[string][]byte, len(m.tables)),
	}

	for i, tbl := range m.tables {
		snap.Tables[i] = make(map[string][]byte, len(tbl))
		for key, bucket := range tbl {
			data, err := bucket.MarshalBinary()
			if err != nil {
				return nil, fmt.Errorf("marshal bucket: %w", err)
			}
			snap.Tables[i][key] = data
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for Memory.
func (m *Memory) GobDecode(data []byte) error {
	var snap memorySnapshot
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&snap); err != nil {
		return err
	}

	restored := NewMemory(len(snap.Tables))
	restored.points = snap.Points

	for i, tbl := range snap.Tables {
		for key, blob := range tbl {
			bucket := roaring.New()
			if err := bucket.UnmarshalBinary(blob); err != nil {
				return fmt.Errorf("unmarshal bucket: %w", err)
			}
			restored.tables[i][key] = bucket
		}
	}

	for idx, p := range restored.points {
		key := pointKey(p)
		if _, ok := restored.pointIdx[key]; !ok {
			restored.pointIdx[key] = uint32(idx) //nolint:gosec // bounded by slice length
		}
	}

	*m = *restored

	return nil
}

// SaveToWriter writes a zstd-compressed snapshot of the backend to w.
func (m *Memory) SaveToWriter(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}

	if err := gob.NewEncoder(zw).Encode(m); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return zw.Close()
}

// LoadMemoryFromReader reads a snapshot written by SaveToWriter and
// reconstructs the backend.
func LoadMemoryFromReader(r io.Reader) (*Memory, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	m := &Memory{}
	if err := gob.NewDecoder(zr).Decode(m); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return m, nil
}
