package kmeanstep

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/kmeanstep/geometry"
	"github.com/hupe1980/kmeanstep/internal/kmeans"
)

// Point is a 2-D data point or centroid.
type Point = geometry.Point

// Method selects how the initial centroids are chosen.
type Method = kmeans.Method

// Initialization methods.
const (
	MethodUnspecified    = kmeans.MethodUnspecified
	MethodRandom         = kmeans.MethodRandom
	MethodFarthestFirst  = kmeans.MethodFarthestFirst
	MethodKMeansPlusPlus = kmeans.MethodKMeansPlusPlus
	MethodManual         = kmeans.MethodManual
)

// Unassigned is the label reported for points that have not been assigned yet.
const Unassigned = kmeans.Unassigned

// ParseMethod parses a method name such as "random", "farthest-first",
// "kmeans++" or "manual".
func ParseMethod(s string) (Method, error) {
	return kmeans.ParseMethod(s)
}

// State is a point-in-time copy of a clustering session.
type State struct {
	Points     []Point
	Centroids  []Point
	Assignment []int
	// Step counts completed iterations since the last (re)initialization.
	Step      int
	Converged bool
	// Shift is the largest centroid movement of the last step.
	Shift float64
}

// Session owns the mutable clustering state for one dataset.
//
// All methods are safe for concurrent use. Step and Run are mutually
// exclusive: while one holds the session, the other fails with ErrSessionBusy.
type Session struct {
	mu    sync.Mutex
	lease *semaphore.Weighted

	rng       kmeans.Rand
	tolerance float64
	maxIter   int
	metrics   MetricsCollector
	logger    *Logger

	k          int
	method     Method
	points     []Point
	centroids  []Point
	assignment []int
	members    []*roaring.Bitmap
	step       int
	converged  bool
	shift      float64

	// epoch changes on every reset so an in-flight run can tell that the
	// state it was driving has been discarded.
	epoch uint64
}

// New creates an empty session.
func New(optFns ...Option) *Session {
	opts := applyOptions(optFns)
	return &Session{
		lease:     semaphore.NewWeighted(1),
		rng:       opts.rng,
		tolerance: opts.tolerance,
		maxIter:   opts.maxIterations,
		metrics:   opts.metricsCollector,
		logger:    opts.logger,
		k:         opts.k,
		method:    opts.method,
	}
}

// LoadDataset replaces the dataset and resets the session.
func (s *Session) LoadDataset(points []Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.points = slices.Clone(points)
	s.resetLocked("dataset")
	s.logger.WithCount(len(s.points)).Debug("dataset loaded")
}

// SelectMethod changes the initialization method and resets the session.
func (s *Session) SelectMethod(m Method) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.method = m
	s.resetLocked("method")
}

// SetK changes the cluster count and resets the session.
// Values below 1 are clamped to 1.
func (s *Session) SetK(k int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.k = max(k, 1)
	s.resetLocked("k")
}

// Reset clears centroids, assignment, step counter and converged flag.
// Dataset, method and k are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked("reset")
}

func (s *Session) resetLocked(reason string) {
	s.centroids = nil
	s.clearProgressLocked()
	s.metrics.RecordReset()
	s.logger.LogReset(context.Background(), reason)
}

func (s *Session) clearProgressLocked() {
	s.assignment = nil
	s.members = nil
	s.step = 0
	s.converged = false
	s.shift = 0
	s.epoch++
}

// Initialize computes the initial centroids with the selected method.
//
// Under MethodManual it returns the centroids placed so far and changes
// nothing. For every other method the previous centroids, assignment and
// progress are replaced. On error the session is left untouched.
func (s *Session) Initialize(ctx context.Context) ([]Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	centroids, err := kmeans.Initialize(s.points, s.k, s.method, s.rng, s.centroids)
	s.metrics.RecordInitialize(s.method, time.Since(start), err)
	s.logger.LogInitialize(ctx, s.method, s.k, len(centroids), err)
	if err != nil {
		return nil, err
	}

	if s.method != MethodManual {
		s.centroids = centroids
		s.clearProgressLocked()
	}
	return slices.Clone(s.centroids), nil
}

// AddManualCentroid places a centroid at p.
//
// It is a no-op if the method is not MethodManual, if k centroids are already
// placed, if the session has converged, or if a centroid already sits at
// exactly p. The resulting centroid set is returned.
func (s *Session) AddManualCentroid(p Point) []Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.method == MethodManual && len(s.centroids) < s.k && !s.converged {
		n := len(s.centroids)
		s.centroids = kmeans.AddCentroid(s.centroids, p)
		if len(s.centroids) != n {
			s.epoch++
		}
	}
	return slices.Clone(s.centroids)
}

// Ready reports whether Initialize can be called meaningfully: a method is
// selected and, in manual mode, exactly k centroids have been placed.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.method {
	case MethodUnspecified:
		return false
	case MethodManual:
		return len(s.centroids) == s.k
	default:
		return true
	}
}

// RemainingManual returns how many centroids are still to be placed in
// manual mode, or 0 for other methods.
func (s *Session) RemainingManual() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.method != MethodManual {
		return 0
	}
	return max(s.k-len(s.centroids), 0)
}

// Step performs one assign/update iteration.
//
// If there are no centroids or the session has already converged, Step is a
// no-op and returns the current state.
func (s *Session) Step(ctx context.Context) (State, error) {
	if !s.lease.TryAcquire(1) {
		return s.State(), ErrSessionBusy
	}
	defer s.lease.Release(1)

	if err := ctx.Err(); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.advanceLocked(ctx)
	return s.stateLocked(), nil
}

// advanceLocked applies one iteration and reports whether anything changed.
func (s *Session) advanceLocked(ctx context.Context) bool {
	if len(s.centroids) == 0 || s.converged {
		return false
	}

	start := time.Now()
	res := kmeans.Step(s.points, s.centroids, s.tolerance)

	s.centroids = res.Centroids
	s.assignment = res.Assignment
	s.members = res.Members
	s.shift = res.Shift
	s.converged = res.Converged
	s.step++

	s.metrics.RecordStep(time.Since(start), res.Converged)
	s.logger.LogStep(ctx, s.step, res.Shift, res.Converged)
	return true
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		Points:     slices.Clone(s.points),
		Centroids:  slices.Clone(s.centroids),
		Assignment: slices.Clone(s.assignment),
		Step:       s.step,
		Converged:  s.converged,
		Shift:      s.shift,
	}
}

// K returns the configured cluster count.
func (s *Session) K() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.k
}

// Method returns the selected initialization method.
func (s *Session) Method() Method {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// Dataset returns a copy of the loaded points.
func (s *Session) Dataset() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.points)
}

// Centroids returns a copy of the current centroids.
func (s *Session) Centroids() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.centroids)
}

// Assignment returns a copy of the current labels. It is empty until the
// first step.
func (s *Session) Assignment() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.assignment)
}

// Label returns the label of point i, or Unassigned.
func (s *Session) Label(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.assignment) {
		return Unassigned
	}
	return s.assignment[i]
}

// StepCount returns the number of completed iterations.
func (s *Session) StepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Converged reports whether every centroid moved less than the tolerance
// during the last step.
func (s *Session) Converged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.converged
}

// Members returns the dataset indices currently assigned to label, in
// ascending order.
func (s *Session) Members(label int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label < 0 || label >= len(s.members) {
		return nil
	}
	out := make([]int, 0, s.members[label].GetCardinality())
	it := s.members[label].Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// ClusterSizes returns the number of points per label. All sizes are zero
// before the first step.
func (s *Session) ClusterSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sizes := make([]int, len(s.centroids))
	for j := range sizes {
		if j < len(s.members) {
			sizes[j] = int(s.members[j].GetCardinality())
		}
	}
	return sizes
}
