package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is below 1 or exceeds the dataset size
	// for a sampling method.
	ErrInvalidK = errors.New("invalid k")

	// ErrNoMethodSelected is returned when initialization is requested
	// before a method was chosen.
	ErrNoMethodSelected = errors.New("no initialization method selected")

	// ErrDegenerateInitialization is returned when KMeans++ finds no point
	// with positive selection probability.
	ErrDegenerateInitialization = errors.New("degenerate initialization: no point with positive weight")
)

// InvalidKError describes a rejected cluster count.
//
// It matches ErrInvalidK via errors.Is.
type InvalidKError struct {
	K           int
	DatasetSize int
	Method      Method
}

func (e *InvalidKError) Error() string {
	if e.K < 1 {
		return fmt.Sprintf("invalid k: %d (must be at least 1)", e.K)
	}
	return fmt.Sprintf("invalid k: %d exceeds dataset size %d for %s initialization", e.K, e.DatasetSize, e.Method)
}

func (e *InvalidKError) Is(target error) bool { return target == ErrInvalidK }
