package lshgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordStore is called after each store operation.
	// duration is the total time taken, err is nil if successful.
	RecordStore(duration time.Duration, err error)

	// RecordBatchStore is called after each batch store operation.
	// count is the number of vectors attempted, duration is the total time taken.
	RecordBatchStore(count int, duration time.Duration, err error)

	// RecordQuery is called after each bucket query.
	// candidates is the size of the bucket union, duration is the time taken.
	RecordQuery(candidates int, duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStore(time.Duration, error)           {}
func (NoopMetricsCollector) RecordBatchStore(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	StoreCount      atomic.Int64
	StoreErrors     atomic.Int64
	StoreTotalNanos atomic.Int64
	BatchStoreCount atomic.Int64
	BatchVecsTotal  atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	CandidatesTotal atomic.Int64
	DeleteCount     atomic.Int64
	DeleteErrors    atomic.Int64
}

// RecordStore records a store operation.
func (c *BasicMetricsCollector) RecordStore(duration time.Duration, err error) {
	c.StoreCount.Add(1)
	c.StoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.StoreErrors.Add(1)
	}
}

// RecordBatchStore records a batch store operation.
func (c *BasicMetricsCollector) RecordBatchStore(count int, duration time.Duration, err error) {
	c.BatchStoreCount.Add(1)
	c.BatchVecsTotal.Add(int64(count))
	c.StoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.StoreErrors.Add(1)
	}
}

// RecordQuery records a bucket query.
func (c *BasicMetricsCollector) RecordQuery(candidates int, duration time.Duration, err error) {
	c.QueryCount.Add(1)
	c.QueryTotalNanos.Add(duration.Nanoseconds())
	c.CandidatesTotal.Add(int64(candidates))
	if err != nil {
		c.QueryErrors.Add(1)
	}
}

// RecordDelete records a delete operation.
func (c *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	c.DeleteCount.Add(1)
	if err != nil {
		c.DeleteErrors.Add(1)
	}
}
