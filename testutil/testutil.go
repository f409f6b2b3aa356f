package testutil

import (
	"github.com/hupe1980/kmeanstep/geometry"
)

// TwoBlobs returns four points forming two well-separated pairs:
// (0,0),(0,1) and (10,10),(10,11).
func TwoBlobs() []geometry.Point {
	return []geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(0, 1),
		geometry.Pt(10, 10), geometry.Pt(10, 11),
	}
}

// ScriptedRand replays fixed values in order. Intn reduces the scripted
// value modulo n; Perm returns the scripted permutation truncated to n.
// Exhausted scripts fall back to 0.
type ScriptedRand struct {
	Ints        []int
	Floats      []float64
	Permutation []int
}

// Intn implements kmeans.Rand.
func (r *ScriptedRand) Intn(n int) int {
	if len(r.Ints) == 0 {
		return 0
	}
	v := r.Ints[0]
	r.Ints = r.Ints[1:]
	return v % n
}

// Float64 implements kmeans.Rand.
func (r *ScriptedRand) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[0]
	r.Floats = r.Floats[1:]
	return v
}

// Perm implements kmeans.Rand.
func (r *ScriptedRand) Perm(n int) []int {
	if len(r.Permutation) < n {
		p := make([]int, n)
		for i := range p {
			p[i] = i
		}
		return p
	}
	return append([]int(nil), r.Permutation[:n]...)
}
