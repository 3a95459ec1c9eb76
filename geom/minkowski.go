package geom

import (
	"math"
)

// MinkowskiSum returns the convex polygon {p + q : p ∈ P, q ∈ Q} for convex
// polygons P and Q given as counter-clockwise vertex lists. Points and
// segments are accepted. The result is normalized with ConvexHull.
func MinkowskiSum(P, Q []Point, tol float64) []Point {
	switch {
	case len(P) == 0 || len(Q) == 0:
		return nil
	case len(P) == 1:
		return Translate(Q, P[0])
	case len(Q) == 1:
		return Translate(P, Q[0])
	}

	P = fromBottom(P)
	Q = fromBottom(Q)
	pa := edgeAngles(P)
	qa := edgeAngles(Q)
	n, m := len(P), len(Q)
	sum := allocPointSlice()

	// Started from the bottom vertex, both edge sequences are sorted by
	// angle in [0, 2π), so the sum's boundary is a merge of the two.
	i, j := 0, 0
	for i < n || j < m {
		sum = append(sum, P[i%n].Add(Q[j%m]))
		switch {
		case j >= m || (i < n && pa[i] < qa[j]):
			i++
		case i >= n || qa[j] < pa[i]:
			j++
		default:
			i++
			j++
		}
	}

	result := ConvexHull(sum, tol)
	freePointSlice(sum)
	return result
}

// WeightedSum returns Σ weights[k]·polygons[k] for non-negative weights,
// skipping polygons with zero weight. It returns nil if any polygon with
// positive weight is empty, and the origin if every weight is zero.
func WeightedSum(polygons [][]Point, weights []float64, tol float64) []Point {
	result := []Point{{}}
	for k, w := range weights {
		if w <= 0 {
			continue
		}

		scaled := Affine(polygons[k], Point{}, w)
		result = MinkowskiSum(result, scaled, tol)
		if len(result) == 0 {
			return nil
		}
	}

	return result
}

// fromBottom rotates a counter-clockwise polygon to start at its lowest
// (then leftmost) vertex.
func fromBottom(points []Point) []Point {
	start := 0
	for i, p := range points {
		b := points[start]
		if p.Y < b.Y || (p.Y == b.Y && p.X < b.X) {
			start = i
		}
	}

	if start == 0 {
		return points
	}

	result := make([]Point, 0, len(points))
	result = append(result, points[start:]...)
	return append(result, points[:start]...)
}

// edgeAngles returns the angle in [0, 2π) of each edge points[i]→points[i+1].
func edgeAngles(points []Point) []float64 {
	n := len(points)
	angles := make([]float64, n)
	for i := range points {
		e := points[(i+1)%n].Sub(points[i])
		theta := math.Atan2(e.Y, e.X)
		if theta < 0 {
			theta += 2 * math.Pi
		}
		angles[i] = theta
	}

	return angles
}
