package kmeans

import (
	"math"
	"slices"

	"github.com/hupe1980/kmeanstep/geometry"
)

// Rand is the randomness consumed by the seeding strategies.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Perm(n int) []int
}

// Initialize produces the initial centroid set for the given method.
//
// Under MethodManual no computation happens and a copy of manual is returned.
// The returned centroids are copies of dataset points for every other method.
func Initialize(points []geometry.Point, k int, method Method, rng Rand, manual []geometry.Point) ([]geometry.Point, error) {
	if k < 1 {
		return nil, &InvalidKError{K: k, DatasetSize: len(points), Method: method}
	}

	switch method {
	case MethodManual:
		return slices.Clone(manual), nil
	case MethodRandom, MethodFarthestFirst, MethodKMeansPlusPlus:
	default:
		return nil, ErrNoMethodSelected
	}

	if k > len(points) {
		return nil, &InvalidKError{K: k, DatasetSize: len(points), Method: method}
	}

	var (
		idx []int
		err error
	)
	switch method {
	case MethodRandom:
		idx = RandomIndices(len(points), k, rng)
	case MethodFarthestFirst:
		idx = FarthestFirstFrom(points, k, rng.Intn(len(points)))
	case MethodKMeansPlusPlus:
		idx, err = KMeansPlusPlusIndices(points, k, rng)
		if err != nil {
			return nil, err
		}
	}

	return gather(points, idx), nil
}

// RandomIndices returns the first k entries of a uniform random permutation
// of [0, n).
func RandomIndices(n, k int, rng Rand) []int {
	return rng.Perm(n)[:k]
}

// FarthestFirstFrom runs farthest-first traversal seeded with points[seed].
//
// Each round picks the unchosen point whose distance to its nearest chosen
// centroid is largest. Ties go to the lowest index, so the result depends on
// seed alone.
func FarthestFirstFrom(points []geometry.Point, k, seed int) []int {
	chosen := make([]int, 1, k)
	chosen[0] = seed
	taken := make([]bool, len(points))
	taken[seed] = true

	minDist := make([]float64, len(points))
	for i := range points {
		minDist[i] = geometry.Distance(points[i], points[seed])
	}

	for len(chosen) < k {
		best := -1
		bestDist := math.Inf(-1)
		for i, d := range minDist {
			if taken[i] {
				continue
			}
			if d > bestDist {
				bestDist = d
				best = i
			}
		}

		chosen = append(chosen, best)
		taken[best] = true
		for i := range points {
			if d := geometry.Distance(points[i], points[best]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return chosen
}

// KMeansPlusPlusIndices seeds with one uniform point, then repeatedly samples
// the next centroid with probability proportional to its (linear, not squared)
// distance to the nearest chosen centroid.
//
// Points coincident with a chosen centroid have zero weight. If every weight
// is zero, ErrDegenerateInitialization is returned.
func KMeansPlusPlusIndices(points []geometry.Point, k int, rng Rand) ([]int, error) {
	first := rng.Intn(len(points))
	chosen := make([]int, 1, k)
	chosen[0] = first

	minDist := make([]float64, len(points))
	for i := range points {
		minDist[i] = geometry.Distance(points[i], points[first])
	}

	for len(chosen) < k {
		var total float64
		for _, d := range minDist {
			total += d
		}
		if total == 0 {
			return nil, ErrDegenerateInitialization
		}

		next := sampleWeighted(minDist, total, rng.Float64())
		chosen = append(chosen, next)
		for i := range points {
			if d := geometry.Distance(points[i], points[next]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return chosen, nil
}

// sampleWeighted walks the cumulative distribution of weights/total and
// returns the first index whose cumulative probability exceeds r.
// Rounding may leave the walk short of r near 1; the last positive-weight
// index is returned then.
func sampleWeighted(weights []float64, total, r float64) int {
	var cum float64
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		cum += w / total
		if cum > r {
			return i
		}
	}
	return last
}

// AddCentroid appends p unless a centroid with the exact same coordinates
// already exists, in which case centroids is returned unchanged.
func AddCentroid(centroids []geometry.Point, p geometry.Point) []geometry.Point {
	if geometry.Contains(centroids, p) {
		return centroids
	}
	return append(centroids, p)
}

func gather(points []geometry.Point, idx []int) []geometry.Point {
	out := make([]geometry.Point, len(idx))
	for i, j := range idx {
		out[i] = points[j]
	}
	return out
}
