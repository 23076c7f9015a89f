// Package lshgo provides an embedded approximate-nearest-neighbor index
// based on Locality-Sensitive Hashing (LSH).
//
// Vectors are hashed into buckets across several independent hash tables so
// that similar vectors collide with high probability. A query probes one
// bucket per table and returns the union of their members, which trades a
// little precision for sublinear candidate lookup.
//
// Three hash families are supported:
//
//   - SRP: sign random projections, for cosine/angular similarity
//   - L2: Euclidean distance (Datar et al.), with bucket width r
//   - MIPS: maximum inner product search via an asymmetric transform
//
// # Quick Start
//
// Build an index with the fluent builder, choosing exactly one hash family:
//
//	lsh, err := lshgo.New(10, 15, 128). // projections, tables, dimension
//	    Seed(42).                        // 0 means true randomness
//	    SRP().
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//
//	if err := lsh.StoreVec(vec); err != nil { ... }
//
//	neighbors, err := lsh.QueryBucket(query) // candidate vectors
//	ids, err := lsh.QueryBucketIDs(query)    // or raw point indices
//
// Storage is in-memory by default. For a durable index backed by a SQLite
// file that can be inspected outside the process:
//
//	lsh, err := lshgo.New(10, 15, 128).
//	    Seed(42).
//	    L2(4.0).
//	    SQLite("./index.db").
//	    Build()
//
// For a fixed nonzero seed the whole index is reproducible: the per-table
// hasher seeds are drawn from the index seed in table order, so two indexes
// built with identical parameters hash identically.
//
// The index holds no internal synchronization. Callers sharing an instance
// across goroutines must serialize mutating operations against each other
// and against reads.
package lshgo
