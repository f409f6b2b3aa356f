// Package geometry provides the 2-D point type and Euclidean distance used by
// the clustering engine.
package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Point is an immutable pair of coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// Equal reports exact coordinate equality.
func Equal(a, b Point) bool {
	return a.X == b.X && a.Y == b.Y
}

// ApproxEqual reports whether a and b are strictly closer than eps.
func ApproxEqual(a, b Point, eps float64) bool {
	return Distance(a, b) < eps
}

// Contains reports whether set holds a point exactly equal to p.
func Contains(set []Point, p Point) bool {
	for _, q := range set {
		if Equal(q, p) {
			return true
		}
	}
	return false
}
