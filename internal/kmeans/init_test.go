package kmeans

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeanstep/geometry"
	"github.com/hupe1980/kmeanstep/testutil"
)

func grid(n int) []geometry.Point {
	points := make([]geometry.Point, 0, n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			points = append(points, geometry.Pt(float64(x), float64(y)*1.5))
		}
	}
	return points
}

func indexOf(points []geometry.Point, p geometry.Point) int {
	for i, q := range points {
		if geometry.Equal(p, q) {
			return i
		}
	}
	return -1
}

func TestInitialize_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("KBelowOne", func(t *testing.T) {
		_, err := Initialize(twoBlobs, 0, MethodRandom, rng, nil)
		require.ErrorIs(t, err, ErrInvalidK)

		var ike *InvalidKError
		require.ErrorAs(t, err, &ike)
		assert.Equal(t, 0, ike.K)
	})

	t.Run("KAboveDatasetSize", func(t *testing.T) {
		for _, m := range []Method{MethodRandom, MethodFarthestFirst, MethodKMeansPlusPlus} {
			_, err := Initialize(twoBlobs, 5, m, rng, nil)
			assert.ErrorIs(t, err, ErrInvalidK, m.String())
		}
	})

	t.Run("ManualIsExemptFromDatasetSize", func(t *testing.T) {
		manual := []geometry.Point{geometry.Pt(1, 1), geometry.Pt(2, 2)}
		got, err := Initialize(twoBlobs[:1], 2, MethodManual, rng, manual)
		require.NoError(t, err)
		assert.Equal(t, manual, got)
	})

	t.Run("NoMethod", func(t *testing.T) {
		_, err := Initialize(twoBlobs, 2, MethodUnspecified, rng, nil)
		assert.ErrorIs(t, err, ErrNoMethodSelected)
	})
}

func TestInitialize_SamplingMethodsReturnDistinctDatasetPoints(t *testing.T) {
	points := grid(6)

	for _, m := range []Method{MethodRandom, MethodFarthestFirst, MethodKMeansPlusPlus} {
		for seed := int64(0); seed < 20; seed++ {
			for _, k := range []int{1, 2, 5, len(points)} {
				rng := rand.New(rand.NewSource(seed))
				got, err := Initialize(points, k, m, rng, nil)
				require.NoError(t, err)
				require.Len(t, got, k)

				seen := make(map[int]bool, k)
				for _, c := range got {
					idx := indexOf(points, c)
					require.NotEqual(t, -1, idx, "%s returned a point outside the dataset", m)
					require.False(t, seen[idx], "%s returned index %d twice", m, idx)
					seen[idx] = true
				}
			}
		}
	}
}

func TestInitialize_Random(t *testing.T) {
	rng := &testutil.ScriptedRand{Permutation: []int{2, 0, 3, 1}}
	got, err := Initialize(twoBlobs, 2, MethodRandom, rng, nil)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{geometry.Pt(10, 10), geometry.Pt(0, 0)}, got)
}

func TestFarthestFirstFrom(t *testing.T) {
	points := []geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(10, 0), geometry.Pt(5, 0), geometry.Pt(4, 0),
	}

	assert.Equal(t, []int{0, 2, 3}, FarthestFirstFrom(points, 3, 0))
	assert.Equal(t, []int{2, 0, 3}, FarthestFirstFrom(points, 3, 2))

	t.Run("Deterministic", func(t *testing.T) {
		data := grid(5)
		first := FarthestFirstFrom(data, 6, 7)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, FarthestFirstFrom(data, 6, 7))
		}
	})

	t.Run("TieGoesToFirst", func(t *testing.T) {
		symmetric := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(-3, 0), geometry.Pt(3, 0)}
		assert.Equal(t, []int{0, 1}, FarthestFirstFrom(symmetric, 2, 0))
	})

	t.Run("Duplicates", func(t *testing.T) {
		same := []geometry.Point{geometry.Pt(1, 1), geometry.Pt(1, 1), geometry.Pt(1, 1)}
		assert.Equal(t, []int{1, 0, 2}, FarthestFirstFrom(same, 3, 1))
	})
}

func TestInitialize_FarthestFirstUsesSeed(t *testing.T) {
	rng := &testutil.ScriptedRand{Ints: []int{3}}
	got, err := Initialize(twoBlobs, 2, MethodFarthestFirst, rng, nil)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{geometry.Pt(10, 11), geometry.Pt(0, 0)}, got)
}

func TestKMeansPlusPlusIndices(t *testing.T) {
	// Seeded at index 0, weights are the linear distances 1, 2, 3 (sum 6).
	points := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(2, 0), geometry.Pt(3, 0)}

	tests := []struct {
		name string
		r    float64
		want int
	}{
		{"Low", 0, 1},
		{"FirstBucketEdge", 0.16, 1},
		{"Middle", 0.3, 2},
		{"High", 0.6, 3},
		{"NearOne", 0.999999, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &testutil.ScriptedRand{Ints: []int{0}, Floats: []float64{tt.r}}
			got, err := KMeansPlusPlusIndices(points, 2, rng)
			require.NoError(t, err)
			assert.Equal(t, []int{0, tt.want}, got)
		})
	}
}

func TestKMeansPlusPlusIndices_SkipsCoincidentPoints(t *testing.T) {
	points := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(0, 0), geometry.Pt(4, 0)}
	rng := &testutil.ScriptedRand{Ints: []int{0}, Floats: []float64{0}}

	got, err := KMeansPlusPlusIndices(points, 2, rng)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)
}

func TestKMeansPlusPlusIndices_Degenerate(t *testing.T) {
	points := []geometry.Point{geometry.Pt(2, 2), geometry.Pt(2, 2), geometry.Pt(2, 2)}
	rng := rand.New(rand.NewSource(42))

	_, err := Initialize(points, 2, MethodKMeansPlusPlus, rng, nil)
	assert.ErrorIs(t, err, ErrDegenerateInitialization)
}

func TestSampleWeighted_FallsBackToLastPositive(t *testing.T) {
	assert.Equal(t, 1, sampleWeighted([]float64{0, 1, 0}, 1, 1))
	assert.Equal(t, -1, sampleWeighted([]float64{0, 0}, 1, 0.5))
}

func TestMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"random", MethodRandom},
		{"Farthest First", MethodFarthestFirst},
		{"farthest-first", MethodFarthestFirst},
		{"KMeans++", MethodKMeansPlusPlus},
		{"kmeans_pp", MethodKMeansPlusPlus},
		{"MANUAL", MethodManual},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMethod("spectral")
	assert.ErrorIs(t, err, ErrNoMethodSelected)

	assert.Equal(t, "KMeans++", MethodKMeansPlusPlus.String())
	assert.Equal(t, "Unknown(42)", Method(42).String())
	assert.True(t, MethodRandom.Samples())
	assert.False(t, MethodManual.Samples())
}
