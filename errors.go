package lshgo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbound is returned when Build is called before a hash family was
	// selected. Selecting a family is part of construction; an index can
	// never be observed in the unbound state.
	ErrUnbound = errors.New("no hash family selected")
)

// ErrDimensionMismatch indicates a vector/index dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrBackendFault indicates that a storage operation failed unexpectedly.
// The storage contract guarantees these calls succeed absent backend
// corruption, so a fault is fatal for the index: callers should log and
// shut down rather than retry.
//
// The underlying storage error can be accessed via errors.Unwrap.
type ErrBackendFault struct {
	Op    string
	cause error
}

func (e *ErrBackendFault) Error() string {
	return fmt.Sprintf("storage backend fault during %s: %v", e.Op, e.cause)
}

func (e *ErrBackendFault) Unwrap() error { return e.cause }

func backendFault(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ErrBackendFault{Op: op, cause: err}
}
