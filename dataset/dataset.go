// Package dataset generates synthetic 2-D datasets for clustering sessions.
//
//	rng := dataset.NewRNG(seed)
//	points := rng.Uniform(100, 0, 10)  // the classic 10x10 playground
//	blobs := rng.Blobs([]geometry.Point{{X: 2, Y: 2}, {X: 8, Y: 8}}, 50, 0.7)
package dataset

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/kmeanstep/geometry"
)

const (
	// DefaultSize is the number of points in a default playground dataset.
	DefaultSize = 100
	// DefaultMin and DefaultMax bound the coordinates of a default dataset.
	DefaultMin = 0.0
	DefaultMax = 10.0
)

// RNG encapsulates a seeded random generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Uniform generates n points with both coordinates uniform in [minVal, maxVal).
// A negative n yields no points.
func (r *RNG) Uniform(n int, minVal, maxVal float64) []geometry.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	points := make([]geometry.Point, max(n, 0))
	for i := range points {
		points[i] = geometry.Pt(minVal+r.rand.Float64()*span, minVal+r.rand.Float64()*span)
	}
	return points
}

// Default generates the default playground dataset.
func (r *RNG) Default() []geometry.Point {
	return r.Uniform(DefaultSize, DefaultMin, DefaultMax)
}

// Blobs generates perCenter points around every center, each coordinate
// drawn from a normal distribution with the given standard deviation.
// Points are grouped by center in input order.
func (r *RNG) Blobs(centers []geometry.Point, perCenter int, stddev float64) []geometry.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	perCenter = max(perCenter, 0)
	points := make([]geometry.Point, 0, len(centers)*perCenter)
	for _, c := range centers {
		for range perCenter {
			points = append(points, geometry.Pt(
				c.X+r.rand.NormFloat64()*stddev,
				c.Y+r.rand.NormFloat64()*stddev,
			))
		}
	}
	return points
}
