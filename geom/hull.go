package geom

import (
	"math"
	"sort"
)

// ConvexHull returns the vertices of the convex hull of the given points
// in counter-clockwise order, starting from the leftmost (then lowest) point.
//
// Points within tol of each other are merged, and vertices within tol of
// the chord between their neighbours are dropped. A hull of coincident
// points is a single point; a hull of collinear points is its two endpoints.
func ConvexHull(points []Point, tol float64) []Point {
	switch len(points) {
	case 0:
		return nil
	case 1:
		return []Point{points[0]}
	}

	sorted := append(allocPointSlice(), points...)
	defer freePointSlice(sorted)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}

		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]Point, 0, len(sorted)+1)
	for _, p := range sorted {
		for len(hull) >= 2 && !isLeftTurn(hull[len(hull)-2], hull[len(hull)-1], p, tol) {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && !isLeftTurn(hull[len(hull)-2], hull[len(hull)-1], p, tol) {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// The last point repeats the first.
	hull = hull[:len(hull)-1]
	return dedupe(hull, tol)
}

func isLeftTurn(o, a, b Point, tol float64) bool {
	return turn(o, a, b) > tol*o.Dist(b)
}

// dedupe drops cyclically consecutive points within tol of each other.
func dedupe(points []Point, tol float64) []Point {
	if len(points) == 0 {
		return points
	}

	result := points[:1]
	for _, p := range points[1:] {
		if !p.Equal(result[len(result)-1], tol) {
			result = append(result, p)
		}
	}

	for len(result) > 1 && result[len(result)-1].Equal(result[0], tol) {
		result = result[:len(result)-1]
	}

	return result
}

// IsConvex returns whether the points form a convex polygon listed in
// counter-clockwise order that winds exactly once. Points and segments
// are trivially convex.
func IsConvex(points []Point, tol float64) bool {
	n := len(points)
	if n <= 2 {
		return true
	}

	winding := 0.0
	for i := 0; i < n; i++ {
		prev := points[(i+n-1)%n]
		cur := points[i]
		next := points[(i+1)%n]
		if turn(prev, cur, next) < -tol*prev.Dist(next) {
			return false
		}

		in := cur.Sub(prev)
		out := next.Sub(cur)
		winding += math.Atan2(in.Cross(out), in.Dot(out))
	}

	return math.Abs(winding-2*math.Pi) < 1e-6
}

// Area returns the signed area of the polygon (positive when
// counter-clockwise).
func Area(points []Point) float64 {
	area := 0.0
	for i, p := range points {
		q := points[(i+1)%len(points)]
		area += p.Cross(q)
	}

	return area / 2
}
