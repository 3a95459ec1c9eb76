package geom

import (
	"math"
)

// ClipHalfPlane returns the part of the convex polygon lying in the
// half-plane {x : normal·x ≥ offset - tol}, walking the polygon's edges
// once. The result is empty if the polygon lies entirely outside.
func ClipHalfPlane(points []Point, normal Point, offset, tol float64) []Point {
	n := len(points)
	if n == 0 {
		return nil
	}

	slack := func(p Point) float64 {
		return normal.Dot(p) - offset + tol
	}

	if n == 1 {
		if slack(points[0]) >= 0 {
			return []Point{points[0]}
		}
		return nil
	}

	clipped := allocPointSlice()
	for i, cur := range points {
		next := points[(i+1)%n]
		cs, ns := slack(cur), slack(next)
		if cs >= 0 {
			clipped = append(clipped, cur)
		}
		if (cs >= 0) != (ns >= 0) {
			t := cs / (cs - ns)
			clipped = append(clipped, cur.Add(next.Sub(cur).Scale(t)))
		}
	}

	result := ConvexHull(clipped, tol)
	freePointSlice(clipped)
	return result
}

// ClipLowerBounds clips the polygon to {x : x.X ≥ lower[0], x.Y ≥ lower[1]}
// within tol. Infinite bounds are ignored.
func ClipLowerBounds(points []Point, lower [2]float64, tol float64) []Point {
	axes := [2]Point{{1, 0}, {0, 1}}
	for player, bound := range lower {
		if math.IsInf(bound, 0) {
			continue
		}

		points = ClipHalfPlane(points, axes[player], bound, tol)
		if len(points) == 0 {
			return nil
		}
	}

	return points
}
