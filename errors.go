package kmeanstep

import (
	"errors"

	"github.com/hupe1980/kmeanstep/internal/kmeans"
)

var (
	// ErrInvalidK is returned when k is below 1, or exceeds the dataset size
	// for a sampling-based initialization method.
	ErrInvalidK = kmeans.ErrInvalidK

	// ErrNoMethodSelected is returned when Initialize is called before an
	// initialization method was selected.
	ErrNoMethodSelected = kmeans.ErrNoMethodSelected

	// ErrDegenerateInitialization is returned when KMeans++ cannot find a
	// point with positive selection probability.
	ErrDegenerateInitialization = kmeans.ErrDegenerateInitialization

	// ErrConvergenceNotReached is returned by Run when the iteration cap is
	// exceeded before the centroids settle.
	ErrConvergenceNotReached = errors.New("convergence not reached")

	// ErrSessionBusy is returned when a step or run is attempted while
	// another runner holds the session.
	ErrSessionBusy = errors.New("session busy")
)

// InvalidKError carries the rejected k and dataset size.
// It matches ErrInvalidK via errors.Is.
type InvalidKError = kmeans.InvalidKError
