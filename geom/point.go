// Package geom implements the planar geometry used to represent payoff sets:
// points, convex hulls, Minkowski sums, half-plane clipping and an
// arena-backed convex polygon that can be cut in place.
package geom

import (
	"fmt"
	"math"
)

// Point is a payoff pair (or a direction) in the plane.
// X is player 1's coordinate and Y is player 2's.
type Point struct {
	X, Y float64
}

// FromAngle returns the unit vector at the given angle (radians).
func FromAngle(theta float64) Point {
	return Point{math.Cos(theta), math.Sin(theta)}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Scale(c float64) Point {
	return Point{c * p.X, c * p.Y}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z-component of p × q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) Dist(q Point) float64 {
	return p.Sub(q).Norm()
}

// Rotate90 rotates p a quarter turn counter-clockwise.
func (p Point) Rotate90() Point {
	return Point{-p.Y, p.X}
}

// Coord returns the coordinate of the given player (0 or 1).
func (p Point) Coord(player int) float64 {
	if player == 0 {
		return p.X
	}

	return p.Y
}

// IsFinite returns whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Equal returns whether p and q are within tol of each other.
func (p Point) Equal(q Point, tol float64) bool {
	return p.Dist(q) <= tol
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%.6g, %.6g)", p.X, p.Y)
}

// turn returns (a-o) × (b-o): positive for a counter-clockwise turn o→a→b.
func turn(o, a, b Point) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

// Support returns the maximal value of d·x over the points, and the
// first point attaining it. It returns -Inf for an empty slice.
func Support(points []Point, d Point) (float64, int) {
	best := math.Inf(-1)
	bestIdx := -1
	for i, p := range points {
		if v := d.Dot(p); v > best {
			best = v
			bestIdx = i
		}
	}

	return best, bestIdx
}

// Translate returns the points shifted by offset.
func Translate(points []Point, offset Point) []Point {
	result := make([]Point, len(points))
	for i, p := range points {
		result[i] = p.Add(offset)
	}

	return result
}

// Affine returns the points mapped by x → a + c·x.
func Affine(points []Point, a Point, c float64) []Point {
	result := make([]Point, len(points))
	for i, p := range points {
		result[i] = a.Add(p.Scale(c))
	}

	return result
}
