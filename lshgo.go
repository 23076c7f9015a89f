package lshgo

import (
	"errors"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lshgo/hash"
	"github.com/hupe1980/lshgo/table"
)

// LSH is an approximate-nearest-neighbor index based on locality-sensitive
// hashing. It owns one hasher and one hash table per configured table; a
// store fans the vector out to every table's bucket for its signature, and
// a query returns the union of the matching buckets.
//
// LSH holds no internal synchronization: callers sharing an instance must
// serialize mutating operations against each other and against reads.
type LSH struct {
	nProjections int
	nHashTables  int
	dim          int
	hashers      []hash.VecHash
	tables       table.HashTables
	logger       *Logger
	metrics      MetricsCollector
}

// Dim returns the configured vector dimensionality.
func (l *LSH) Dim() int { return l.dim }

// NumHashTables returns the number of hash tables.
func (l *LSH) NumHashTables() int { return l.nHashTables }

// NumProjections returns the signature length.
func (l *LSH) NumProjections() int { return l.nProjections }

func (l *LSH) validateDim(v []float32) error {
	if len(v) != l.dim {
		return &ErrDimensionMismatch{Expected: l.dim, Actual: len(v)}
	}
	return nil
}

// StoreVec stores a single vector: it is appended to the global point
// store once, and its index is inserted into one bucket per hash table.
func (l *LSH) StoreVec(v []float32) error {
	start := time.Now()

	idx, err := l.storeVec(v)

	l.metrics.RecordStore(time.Since(start), err)
	l.logger.LogStore(idx, len(v), err)

	return err
}

func (l *LSH) storeVec(v []float32) (uint32, error) {
	if err := l.validateDim(v); err != nil {
		return 0, err
	}

	idx, err := l.tables.Append(v)
	if err != nil {
		return 0, backendFault("append", err)
	}

	for i, hasher := range l.hashers {
		sig := hasher.HashVecPut(v)
		if err := l.tables.Put(sig, idx, i); err != nil {
			return idx, backendFault("put", err)
		}
	}

	return idx, nil
}

// StoreVecs stores multiple vectors. The storage capacity is increased once
// up front; the global point-store indices are assigned in input order.
func (l *LSH) StoreVecs(vs [][]float32) error {
	start := time.Now()

	var err error

	l.tables.IncreaseStorage(len(vs))
	for _, v := range vs {
		if _, err = l.storeVec(v); err != nil {
			break
		}
	}

	l.metrics.RecordBatchStore(len(vs), time.Since(start), err)
	l.logger.LogBatchStore(len(vs), err)

	return err
}

// queryBucketUnion merges the buckets the query vector hashes into across
// all tables. A missing bucket contributes nothing; any other storage error
// aborts the query.
func (l *LSH) queryBucketUnion(v []float32) (*roaring.Bitmap, error) {
	if err := l.validateDim(v); err != nil {
		return nil, err
	}

	union := roaring.New()

	for i, hasher := range l.hashers {
		sig := hasher.HashVecQuery(v)

		bucket, err := l.tables.QueryBucket(sig, i)
		if errors.Is(err, table.ErrBucketNotFound) {
			continue
		}
		if err != nil {
			return nil, backendFault("query", err)
		}

		union.Or(bucket)
	}

	return union, nil
}

// QueryBucket returns the vectors in the union of the query's buckets
// across all hash tables. The result order is unspecified. An index without
// matching buckets yields an empty result, not an error.
func (l *LSH) QueryBucket(v []float32) ([][]float32, error) {
	start := time.Now()

	union, err := l.queryBucketUnion(v)
	if err != nil {
		l.metrics.RecordQuery(0, time.Since(start), err)
		l.logger.LogQuery(0, err)

		return nil, err
	}

	result := make([][]float32, 0, union.GetCardinality())

	it := union.Iterator()
	for it.HasNext() {
		point, err := l.tables.IndexToPoint(it.Next())
		if err != nil {
			err = backendFault("resolve", err)

			l.metrics.RecordQuery(0, time.Since(start), err)
			l.logger.LogQuery(0, err)

			return nil, err
		}
		result = append(result, point)
	}

	l.metrics.RecordQuery(len(result), time.Since(start), nil)
	l.logger.LogQuery(len(result), nil)

	return result, nil
}

// QueryBucketIDs is QueryBucket returning the raw global point indices
// instead of resolved vectors. Useful when deduplicating across repeated
// queries by identity rather than by value.
func (l *LSH) QueryBucketIDs(v []float32) ([]uint32, error) {
	start := time.Now()

	union, err := l.queryBucketUnion(v)

	candidates := 0
	if union != nil {
		candidates = int(union.GetCardinality())
	}

	l.metrics.RecordQuery(candidates, time.Since(start), err)
	l.logger.LogQuery(candidates, err)

	if err != nil {
		return nil, err
	}

	return union.ToArray(), nil
}

// DeleteVec removes the vector's bucket membership from every hash table.
// The query-side hash locates the buckets, so deletion finds exactly the
// buckets a query would. The global point store is not shrunk: the vector's
// slot stays allocated but unreferenced.
func (l *LSH) DeleteVec(v []float32) error {
	start := time.Now()

	err := l.deleteVec(v)

	l.metrics.RecordDelete(time.Since(start), err)
	l.logger.LogDelete(err)

	return err
}

func (l *LSH) deleteVec(v []float32) error {
	if err := l.validateDim(v); err != nil {
		return err
	}

	for i, hasher := range l.hashers {
		sig := hasher.HashVecQuery(v)
		if err := l.tables.Delete(sig, v, i); err != nil {
			return backendFault("delete", err)
		}
	}

	return nil
}

// Describe returns a human-readable summary of table occupancy.
func (l *LSH) Describe() (string, error) {
	desc, err := l.tables.Describe()
	if err != nil {
		return "", backendFault("describe", err)
	}
	return desc, nil
}
