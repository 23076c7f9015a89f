package lshgo

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/hupe1980/lshgo/hash"
	"github.com/hupe1980/lshgo/table"
	"github.com/klauspost/compress/zstd"
)

func init() {
	gob.Register(&hash.SRP{})
	gob.Register(&hash.L2{})
	gob.Register(&hash.MIPS{})
}

// lshSnapshot is the serialized form of an index. Hashers carry their
// sampled projections, so a restored index hashes identically to the
// original without re-deriving anything from the seed.
type lshSnapshot struct {
	NProjections int
	NHashTables  int
	Dim          int
	Hashers      []hash.VecHash
	Table        *table.Memory
}

// SaveToWriter writes a zstd-compressed snapshot of the index to w.
// Only indexes on the in-memory backend can be snapshotted; the sqlite
// backend is already durable.
func (l *LSH) SaveToWriter(w io.Writer) error {
	mem, ok := l.tables.(*table.Memory)
	if !ok {
		return fmt.Errorf("snapshot requires the in-memory backend, got %T", l.tables)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}

	snap := lshSnapshot{
		NProjections: l.nProjections,
		NHashTables:  l.nHashTables,
		Dim:          l.dim,
		Hashers:      l.hashers,
		Table:        mem,
	}

	if err := gob.NewEncoder(zw).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return zw.Close()
}

// LoadFromReader reads a snapshot written by SaveToWriter and reconstructs
// the index on an in-memory backend. The restored index uses a no-op
// logger and metrics collector.
func LoadFromReader(r io.Reader) (*LSH, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var snap lshSnapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if len(snap.Hashers) != snap.NHashTables || snap.Table == nil || snap.Table.NumTables() != snap.NHashTables {
		return nil, fmt.Errorf("corrupt snapshot: %d hasher(s), %d table(s)", len(snap.Hashers), snap.NHashTables)
	}

	return &LSH{
		nProjections: snap.NProjections,
		nHashTables:  snap.NHashTables,
		dim:          snap.Dim,
		hashers:      snap.Hashers,
		tables:       snap.Table,
		logger:       NoopLogger(),
		metrics:      NoopMetricsCollector{},
	}, nil
}
