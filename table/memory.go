package table

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lshgo/hash"
)

// Compile-time check to ensure Memory satisfies the HashTables interface.
var _ HashTables = (*Memory)(nil)

// Memory is the in-memory storage backend: one hash map of signature to
// bucket per table, plus a growable point store shared by all tables.
// Buckets are roaring bitmaps of point indices, which keeps membership
// deduplicated and makes the query-side bucket union cheap.
type Memory struct {
	tables   []map[string]*roaring.Bitmap
	points   [][]float32
	pointIdx map[string]uint32 // value-equality key -> first index with that value
}

// NewMemory creates an in-memory backend with nTables empty hash tables.
func NewMemory(nTables int) *Memory {
	tables := make([]map[string]*roaring.Bitmap, nTables)
	for i := range tables {
		tables[i] = make(map[string]*roaring.Bitmap)
	}

	return &Memory{
		tables:   tables,
		pointIdx: make(map[string]uint32),
	}
}

// Put inserts a point index into the bucket for sig in table tableID.
func (m *Memory) Put(sig hash.Signature, idx uint32, tableID int) error {
	if tableID < 0 || tableID >= len(m.tables) {
		return &ErrTableOutOfRange{TableID: tableID, NumTables: len(m.tables)}
	}

	key := sig.Key()

	bucket, ok := m.tables[tableID][key]
	if !ok {
		bucket = roaring.New()
		m.tables[tableID][key] = bucket
	}
	bucket.Add(idx)

	return nil
}

// QueryBucket returns the bucket membership for sig in table tableID.
func (m *Memory) QueryBucket(sig hash.Signature, tableID int) (*roaring.Bitmap, error) {
	if tableID < 0 || tableID >= len(m.tables) {
		return nil, &ErrTableOutOfRange{TableID: tableID, NumTables: len(m.tables)}
	}

	bucket, ok := m.tables[tableID][sig.Key()]
	if !ok {
		return nil, ErrBucketNotFound
	}

	return bucket, nil
}

// Delete removes the point's index from the bucket for sig in table tableID.
func (m *Memory) Delete(sig hash.Signature, point []float32, tableID int) error {
	if tableID < 0 || tableID >= len(m.tables) {
		return &ErrTableOutOfRange{TableID: tableID, NumTables: len(m.tables)}
	}

	idx, ok := m.pointIdx[pointKey(point)]
	if !ok {
		return nil
	}

	if bucket, ok := m.tables[tableID][sig.Key()]; ok {
		bucket.Remove(idx)
	}

	return nil
}

// IncreaseStorage grows the point store's capacity by n slots.
func (m *Memory) IncreaseStorage(n int) {
	if n <= 0 {
		return
	}

	if cap(m.points)-len(m.points) < n {
		grown := make([][]float32, len(m.points), len(m.points)+n)
		copy(grown, m.points)
		m.points = grown
	}
}

// Append adds a point to the global point store and returns its index.
func (m *Memory) Append(point []float32) (uint32, error) {
	idx := uint32(len(m.points))
	m.points = append(m.points, point)

	key := pointKey(point)
	if _, ok := m.pointIdx[key]; !ok {
		m.pointIdx[key] = idx
	}

	return idx, nil
}

// IndexToPoint resolves a global point index back to its vector.
func (m *Memory) IndexToPoint(idx uint32) ([]float32, error) {
	if int(idx) >= len(m.points) {
		return nil, &ErrPointNotFound{Index: idx}
	}
	return m.points[idx], nil
}

// NumTables returns the number of hash tables.
func (m *Memory) NumTables() int { return len(m.tables) }

// Describe returns a human-readable summary of table occupancy.
func (m *Memory) Describe() (string, error) {
	stats := make([]tableStats, len(m.tables))
	for i, tbl := range m.tables {
		stats[i].Buckets = len(tbl)
		for _, bucket := range tbl {
			stats[i].Entries += int(bucket.GetCardinality())
		}
	}

	return formatDescription("memory", len(m.points), stats), nil
}
