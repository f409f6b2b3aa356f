package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeanstep/geometry"
	"github.com/hupe1980/kmeanstep/testutil"
)

var twoBlobs = testutil.TwoBlobs()

func TestNearest(t *testing.T) {
	centroids := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 10), geometry.Pt(20, 20)}

	assert.Equal(t, 0, Nearest(geometry.Pt(1, 1), centroids))
	assert.Equal(t, 2, Nearest(geometry.Pt(19, 19), centroids))
	assert.Equal(t, Unassigned, Nearest(geometry.Pt(1, 1), nil))

	t.Run("TieGoesToLowestLabel", func(t *testing.T) {
		tied := []geometry.Point{geometry.Pt(-1, 0), geometry.Pt(1, 0)}
		assert.Equal(t, 0, Nearest(geometry.Pt(0, 0), tied))
	})
}

func TestStep_TwoBlobs(t *testing.T) {
	centroids := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 10)}

	res := Step(twoBlobs, centroids, DefaultTolerance)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Assignment)
	assert.Equal(t, []geometry.Point{geometry.Pt(0, 0.5), geometry.Pt(10, 10.5)}, res.Centroids)
	assert.InDelta(t, 0.5, res.Shift, 1e-12)
	assert.False(t, res.Converged)

	res = Step(twoBlobs, res.Centroids, DefaultTolerance)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Assignment)
	assert.Equal(t, []geometry.Point{geometry.Pt(0, 0.5), geometry.Pt(10, 10.5)}, res.Centroids)
	assert.Zero(t, res.Shift)
	assert.True(t, res.Converged)

	require.Len(t, res.Members, 2)
	assert.Equal(t, []uint32{0, 1}, res.Members[0].ToArray())
	assert.Equal(t, []uint32{2, 3}, res.Members[1].ToArray())
}

func TestStep_EmptyClusterKeepsCentroid(t *testing.T) {
	far := geometry.Pt(100, -100)
	centroids := []geometry.Point{geometry.Pt(0, 0), far, geometry.Pt(10, 10)}

	res := Step(twoBlobs, centroids, DefaultTolerance)
	assert.Equal(t, []int{0, 0, 2, 2}, res.Assignment)
	assert.Equal(t, far, res.Centroids[1])
	assert.True(t, res.Members[1].IsEmpty())
}

func TestStep_AssignmentIsNearest(t *testing.T) {
	points := []geometry.Point{
		geometry.Pt(1, 2), geometry.Pt(3, 1), geometry.Pt(7, 8), geometry.Pt(2, 9),
		geometry.Pt(5, 5), geometry.Pt(9, 1), geometry.Pt(0, 4), geometry.Pt(6, 3),
	}
	centroids := []geometry.Point{geometry.Pt(2, 2), geometry.Pt(8, 8), geometry.Pt(5, 1)}

	res := Step(points, centroids, DefaultTolerance)
	for i, p := range points {
		own := geometry.Distance(p, centroids[res.Assignment[i]])
		for _, c := range centroids {
			assert.LessOrEqual(t, own, geometry.Distance(p, c))
		}
	}
}

func TestStep_CentroidIsMean(t *testing.T) {
	points := []geometry.Point{
		geometry.Pt(1, 1), geometry.Pt(2, 3), geometry.Pt(3, 2),
		geometry.Pt(20, 20), geometry.Pt(22, 18),
	}
	centroids := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(21, 21)}

	res := Step(points, centroids, DefaultTolerance)
	assert.InDelta(t, 2.0, res.Centroids[0].X, 1e-12)
	assert.InDelta(t, 2.0, res.Centroids[0].Y, 1e-12)
	assert.InDelta(t, 21.0, res.Centroids[1].X, 1e-12)
	assert.InDelta(t, 19.0, res.Centroids[1].Y, 1e-12)
}

func TestStep_ToleranceIsStrict(t *testing.T) {
	points := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(0, 2)}
	centroids := []geometry.Point{geometry.Pt(0, 0.5)}

	// The centroid moves by exactly 0.5.
	res := Step(points, centroids, 0.5)
	assert.False(t, res.Converged)

	res = Step(points, centroids, 0.6)
	assert.True(t, res.Converged)
}

func TestMembers_IgnoresUnassigned(t *testing.T) {
	members := Members([]int{Unassigned, 1, 1, 0}, 2)
	assert.Equal(t, []uint32{3}, members[0].ToArray())
	assert.Equal(t, []uint32{1, 2}, members[1].ToArray())
}

func TestAddCentroid(t *testing.T) {
	var set []geometry.Point
	set = AddCentroid(set, geometry.Pt(1, 2))
	set = AddCentroid(set, geometry.Pt(1, 2))
	assert.Len(t, set, 1)

	set = AddCentroid(set, geometry.Pt(1, 2.0000001))
	assert.Len(t, set, 2)
}
