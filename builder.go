// Package lshgo provides an embedded LSH index.
//
// This file implements the fluent builder API for creating and configuring
// LSH instances. The builder is immutable - each method returns a new
// builder with the updated configuration.
package lshgo

import (
	"github.com/hupe1980/lshgo/hash"
	"github.com/hupe1980/lshgo/internal/rng"
	"github.com/hupe1980/lshgo/table"
)

type familyKind int

const (
	familyNone familyKind = iota
	familySRP
	familyL2
	familyMIPS
)

// Builder is an immutable fluent builder for creating LSH instances.
// Exactly one hash family must be selected before Build; seed and storage
// selection are optional.
//
// Example:
//
//	lsh, err := lshgo.New(10, 15, 128).
//	    Seed(42).
//	    L2(4.0).
//	    SQLite("./index.db").
//	    Build()
type Builder struct {
	nProjections int
	nHashTables  int
	dim          int
	seed         uint64
	family       familyKind
	r            float32
	u            float32
	m            int
	sqlitePath   string
	storage      table.HashTables
	logger       *Logger
	metrics      MetricsCollector
}

// New creates a new builder for an index with nProjections hash projections
// per signature, nHashTables independent hash tables and vectors of length
// dim. More tables increase the chance of finding close vectors at a
// performance and space cost.
func New(nProjections, nHashTables, dim int) Builder {
	return Builder{
		nProjections: nProjections,
		nHashTables:  nHashTables,
		dim:          dim,
	}
}

// Seed sets the index seed. A seed of 0 (the default) seeds the hashers
// from true randomness; any nonzero value makes the index fully
// deterministic, including the per-table hasher seeds sampled at Build.
func (b Builder) Seed(seed uint64) Builder {
	b.seed = seed
	return b
}

// SRP selects the sign random projections family (cosine similarity).
func (b Builder) SRP() Builder {
	b.family = familySRP
	return b
}

// L2 selects the Euclidean family with bucket width r.
func (b Builder) L2(r float32) Builder {
	b.family = familyL2
	b.r = r
	return b
}

// MIPS selects the asymmetric maximum-inner-product family with bucket
// width r, norm bound u in (0,1) and m extra transform terms.
func (b Builder) MIPS(r, u float32, m int) Builder {
	b.family = familyMIPS
	b.r = r
	b.u = u
	b.m = m
	return b
}

// SQLite stores buckets and points durably in the SQLite database at path
// instead of in memory.
func (b Builder) SQLite(path string) Builder {
	b.sqlitePath = path
	return b
}

// Storage uses a caller-provided storage backend. It takes precedence over
// SQLite and the default in-memory backend.
func (b Builder) Storage(t table.HashTables) Builder {
	b.storage = t
	return b
}

// Logger sets the logger. Defaults to a no-op logger.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector. Defaults to NoopMetricsCollector.
func (b Builder) Metrics(m MetricsCollector) Builder {
	b.metrics = m
	return b
}

// Build validates the configuration and constructs the index: it samples
// one hasher seed per table from the index seed (in table order, which is
// part of the reproducibility contract) and allocates the storage backend.
func (b Builder) Build() (*LSH, error) {
	if b.dim <= 0 {
		return nil, &hash.ErrInvalidDimension{Dimension: b.dim}
	}
	if b.nProjections <= 0 {
		return nil, &hash.ErrInvalidParameter{Name: "nProjections", Value: float64(b.nProjections)}
	}
	if b.nHashTables <= 0 {
		return nil, &hash.ErrInvalidParameter{Name: "nHashTables", Value: float64(b.nHashTables)}
	}
	if b.family == familyNone {
		return nil, ErrUnbound
	}

	seeds := rng.SubSeeds(b.seed, b.nHashTables)

	hashers := make([]hash.VecHash, b.nHashTables)
	for i, seed := range seeds {
		var (
			h   hash.VecHash
			err error
		)

		switch b.family {
		case familySRP:
			h, err = hash.NewSRP(b.nProjections, b.dim, seed)
		case familyL2:
			h, err = hash.NewL2(b.dim, b.r, b.nProjections, seed)
		case familyMIPS:
			h, err = hash.NewMIPS(b.dim, b.r, b.u, b.m, b.nProjections, seed)
		}
		if err != nil {
			return nil, err
		}

		hashers[i] = h
	}

	storage := b.storage
	if storage == nil {
		if b.sqlitePath != "" {
			var err error
			if storage, err = table.NewSQLite(b.sqlitePath, b.nHashTables); err != nil {
				return nil, err
			}
		} else {
			storage = table.NewMemory(b.nHashTables)
		}
	}

	logger := b.logger
	if logger == nil {
		logger = NoopLogger()
	}

	metrics := b.metrics
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &LSH{
		nProjections: b.nProjections,
		nHashTables:  b.nHashTables,
		dim:          b.dim,
		hashers:      hashers,
		tables:       storage,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// NewSRP builds an SRP index in one call. It mirrors the per-family
// construction surface exposed to binding layers.
func NewSRP(nProjections, nHashTables, dim int, seed uint64) (*LSH, error) {
	return New(nProjections, nHashTables, dim).Seed(seed).SRP().Build()
}

// NewL2 builds a Euclidean index in one call.
func NewL2(nProjections, nHashTables, dim int, r float32, seed uint64) (*LSH, error) {
	return New(nProjections, nHashTables, dim).Seed(seed).L2(r).Build()
}

// NewMIPS builds a maximum-inner-product index in one call.
func NewMIPS(nProjections, nHashTables, dim int, r, u float32, m int, seed uint64) (*LSH, error) {
	return New(nProjections, nHashTables, dim).Seed(seed).MIPS(r, u, m).Build()
}
