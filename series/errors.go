package series

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates malformed construction input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOrderViolation indicates an append whose x value does not exceed
	// the last x value in the series.
	ErrOrderViolation = errors.New("x value must be larger than the last x value in the series")
	// ErrEmptyState indicates a query that needs at least one sample.
	ErrEmptyState = errors.New("series has no samples")
	// ErrEmptyWindow indicates that a window does not intersect the series.
	// It is not a failure: callers skip the series for the frame.
	ErrEmptyWindow = errors.New("no samples inside window")
)

// OrderError describes a rejected append.
type OrderError struct {
	Last, Got float64
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("append x=%g after x=%g: %v", e.Got, e.Last, ErrOrderViolation)
}

func (e *OrderError) Unwrap() error {
	return ErrOrderViolation
}
