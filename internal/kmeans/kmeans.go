package kmeans

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/kmeanstep/geometry"
)

// Unassigned is the label of a point before its first assignment.
const Unassigned = -1

// DefaultTolerance is the centroid movement below which a step converges.
const DefaultTolerance = 1e-4

// Result is the outcome of a single Step.
type Result struct {
	Assignment []int
	Centroids  []geometry.Point
	// Members holds, per label, the dataset indices assigned to it.
	Members []*roaring.Bitmap
	// Shift is the largest distance any centroid moved.
	Shift     float64
	Converged bool
}

// Nearest returns the label of the centroid closest to p.
// Ties go to the lowest label. It returns Unassigned if centroids is empty.
func Nearest(p geometry.Point, centroids []geometry.Point) int {
	best := Unassigned
	minDist := math.Inf(1)
	for j, c := range centroids {
		if d := geometry.Distance(p, c); d < minDist {
			minDist = d
			best = j
		}
	}
	return best
}

// Assign labels every point with its nearest centroid.
func Assign(points, centroids []geometry.Point) []int {
	assignment := make([]int, len(points))
	for i, p := range points {
		assignment[i] = Nearest(p, centroids)
	}
	return assignment
}

// Members groups point indices by label.
func Members(assignment []int, k int) []*roaring.Bitmap {
	members := make([]*roaring.Bitmap, k)
	for j := range members {
		members[j] = roaring.New()
	}
	for i, label := range assignment {
		if label >= 0 && label < k {
			members[label].Add(uint32(i))
		}
	}
	return members
}

// Update moves each centroid to the mean of its members. A centroid without
// members keeps its previous position.
func Update(points, centroids []geometry.Point, members []*roaring.Bitmap) []geometry.Point {
	next := make([]geometry.Point, len(centroids))
	for j, c := range centroids {
		m := members[j]
		if m.IsEmpty() {
			next[j] = c
			continue
		}

		xs := make([]float64, 0, m.GetCardinality())
		ys := make([]float64, 0, m.GetCardinality())
		it := m.Iterator()
		for it.HasNext() {
			p := points[it.Next()]
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
		next[j] = geometry.Pt(stat.Mean(xs, nil), stat.Mean(ys, nil))
	}
	return next
}

// Step performs one assign/update iteration.
//
// Convergence is declared when every centroid moved strictly less than
// tolerance during this step.
func Step(points, centroids []geometry.Point, tolerance float64) Result {
	assignment := Assign(points, centroids)
	members := Members(assignment, len(centroids))
	next := Update(points, centroids, members)

	var shift float64
	converged := true
	for j := range centroids {
		d := geometry.Distance(centroids[j], next[j])
		if d > shift {
			shift = d
		}
		if !(d < tolerance) {
			converged = false
		}
	}

	return Result{
		Assignment: assignment,
		Centroids:  next,
		Members:    members,
		Shift:      shift,
		Converged:  converged,
	}
}
