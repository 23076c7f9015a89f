// Package table provides the bucket storage backends of the LSH index.
//
// A backend stores n hash tables, each mapping a hash signature to a bucket
// of point indices, plus the global point store every bucket indexes into.
// Two implementations are provided: Memory (hash maps, fastest) and SQLite
// (durable and queryable outside the process). Both satisfy the same
// HashTables contract so the index is backend-agnostic.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lshgo/hash"
)

// ErrBucketNotFound is returned by QueryBucket when no bucket exists for a
// signature. It is an expected outcome, not a storage fault: the query path
// of the index absorbs it as an empty contribution.
var ErrBucketNotFound = errors.New("bucket not found")

// ErrTableOutOfRange is a named error type for a table id outside
// [0, NumTables).
type ErrTableOutOfRange struct {
	TableID   int
	NumTables int
}

// Error returns the error message for an out-of-range table id.
func (e *ErrTableOutOfRange) Error() string {
	return fmt.Sprintf("table id %d out of range [0, %d)", e.TableID, e.NumTables)
}

// ErrPointNotFound is a named error type for a point index with no entry in
// the global point store.
type ErrPointNotFound struct {
	Index uint32
}

// Error returns the error message for a missing point index.
func (e *ErrPointNotFound) Error() string {
	return fmt.Sprintf("no point stored at index %d", e.Index)
}

// HashTables is the capability interface of a bucket storage backend.
//
// Buckets hold global point indices, never vectors: a vector appended once
// via Append is referenced by at most one bucket per table, regardless of
// how many collisions it participates in.
type HashTables interface {
	// Put inserts a point index into the bucket for sig in table tableID.
	// Re-inserting the same index into the same bucket is a no-op.
	Put(sig hash.Signature, idx uint32, tableID int) error

	// QueryBucket returns the bucket membership for sig in table tableID,
	// or ErrBucketNotFound if no such bucket exists.
	QueryBucket(sig hash.Signature, tableID int) (*roaring.Bitmap, error)

	// Delete removes the point's index from the bucket for sig in table
	// tableID. It succeeds as a no-op when the point was never stored,
	// because the caller cannot reliably know membership in advance.
	Delete(sig hash.Signature, point []float32, tableID int) error

	// IncreaseStorage hints that n more points are about to be appended so
	// the backend can pre-allocate. Backends that do not pre-allocate may
	// treat it as a no-op.
	IncreaseStorage(n int)

	// Append adds a point to the global point store and returns its index.
	Append(point []float32) (uint32, error)

	// IndexToPoint resolves a global point index back to its vector. It is
	// defined for every index ever returned by QueryBucket.
	IndexToPoint(idx uint32) ([]float32, error)

	// NumTables returns the number of hash tables the backend holds.
	NumTables() int

	// Describe returns a human-readable summary of table occupancy.
	Describe() (string, error)
}

// tableStats holds per-table occupancy counters for Describe.
type tableStats struct {
	Buckets int
	Entries int
}

func formatDescription(name string, points int, stats []tableStats) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %d table(s), %d point(s) stored\n", name, len(stats), points)

	for i, s := range stats {
		avg := 0.0
		if s.Buckets > 0 {
			avg = float64(s.Entries) / float64(s.Buckets)
		}
		fmt.Fprintf(&sb, "\ttable %d: %d bucket(s), %d entrie(s), avg bucket size %.2f\n", i, s.Buckets, s.Entries, avg)
	}

	return sb.String()
}
