package geom

import (
	"math"
)

const nilIndex = -1

type vertex struct {
	p          Point
	next, prev int
}

// Polygon is a convex polygon whose vertices live in an index-addressed
// arena linked into a counter-clockwise cycle. Cutting the polygon with a
// half-plane removes a contiguous run of vertices and splices in the new
// boundary points without moving the remaining vertices.
//
// The zero value is an empty polygon. Polygon is not safe for concurrent
// mutation.
type Polygon struct {
	arena []vertex
	free  []int
	head  int
	n     int
}

// NewPolygon creates a Polygon from counter-clockwise convex vertices,
// such as those returned by ConvexHull.
func NewPolygon(points []Point) *Polygon {
	pg := &Polygon{head: nilIndex}
	prev := nilIndex
	for _, p := range points {
		prev = pg.insertAfter(prev, p)
	}

	return pg
}

// Len returns the number of vertices.
func (pg *Polygon) Len() int {
	return pg.n
}

// IsEmpty returns whether the polygon has no vertices.
func (pg *Polygon) IsEmpty() bool {
	return pg.n == 0
}

// Vertices returns the vertices in counter-clockwise order.
func (pg *Polygon) Vertices() []Point {
	result := make([]Point, 0, pg.n)
	pg.iter(func(i int) {
		result = append(result, pg.arena[i].p)
	})
	return result
}

// Support returns the maximal value of d·x over the polygon and a vertex
// attaining it. It returns -Inf for an empty polygon.
func (pg *Polygon) Support(d Point) (float64, Point) {
	best := math.Inf(-1)
	var bestPoint Point
	pg.iter(func(i int) {
		if v := d.Dot(pg.arena[i].p); v > best {
			best = v
			bestPoint = pg.arena[i].p
		}
	})
	return best, bestPoint
}

// Min returns the minimal coordinate of the given player over the polygon,
// or +Inf if the polygon is empty.
func (pg *Polygon) Min(player int) float64 {
	best := math.Inf(1)
	pg.iter(func(i int) {
		best = math.Min(best, pg.arena[i].p.Coord(player))
	})
	return best
}

// Cut intersects the polygon with the half-plane {x : d·x ≤ h}. Vertices
// beyond h+tol are removed and the points where the boundary crosses the
// line d·x = h are spliced in their place. It returns how far the polygon
// extended beyond the line before the cut (zero if it did not).
//
// If every vertex lies beyond h+tol the polygon becomes empty.
func (pg *Polygon) Cut(d Point, h, tol float64) float64 {
	if pg.n == 0 {
		return 0
	}

	support, _ := pg.Support(d)
	depth := math.Max(0, support-h)
	if support <= h+tol {
		return depth
	}

	outside := func(i int) bool {
		return d.Dot(pg.arena[i].p) > h+tol
	}

	start := nilIndex
	pg.iter(func(i int) {
		if start == nilIndex && !outside(i) {
			start = i
		}
	})
	if start == nilIndex {
		pg.clear()
		return depth
	}

	// By convexity the outside vertices form one contiguous run.
	lastIn := start
	for !outside(pg.arena[lastIn].next) {
		lastIn = pg.arena[lastIn].next
	}
	firstOut := pg.arena[lastIn].next
	lastOut := firstOut
	for outside(pg.arena[lastOut].next) {
		lastOut = pg.arena[lastOut].next
	}
	nextIn := pg.arena[lastOut].next

	enter := crossing(pg.arena[lastIn].p, pg.arena[firstOut].p, d, h)
	exit := crossing(pg.arena[nextIn].p, pg.arena[lastOut].p, d, h)

	for i := firstOut; ; {
		next := pg.arena[i].next
		pg.release(i)
		if i == lastOut {
			break
		}
		i = next
	}

	pg.arena[lastIn].next = nextIn
	pg.arena[nextIn].prev = lastIn
	pg.head = lastIn

	prev := lastIn
	if !enter.Equal(pg.arena[prev].p, tol) {
		prev = pg.insertAfter(prev, enter)
	}
	if !exit.Equal(pg.arena[prev].p, tol) && !exit.Equal(pg.arena[nextIn].p, tol) {
		pg.insertAfter(prev, exit)
	}

	return depth
}

// crossing returns the point on segment in→out where d·x = h, with in on
// the kept side.
func crossing(in, out, d Point, h float64) Point {
	e := out.Sub(in)
	denom := d.Dot(e)
	if denom <= 0 {
		return in
	}

	t := (h - d.Dot(in)) / denom
	t = math.Max(0, math.Min(1, t))
	return in.Add(e.Scale(t))
}

func (pg *Polygon) iter(cb func(i int)) {
	for i, k := pg.head, 0; k < pg.n; i, k = pg.arena[i].next, k+1 {
		cb(i)
	}
}

// insertAfter links a new vertex after index prev (or as the only vertex
// when prev is nilIndex) and returns its index.
func (pg *Polygon) insertAfter(prev int, p Point) int {
	var idx int
	if len(pg.free) > 0 {
		idx = pg.free[len(pg.free)-1]
		pg.free = pg.free[:len(pg.free)-1]
	} else {
		idx = len(pg.arena)
		pg.arena = append(pg.arena, vertex{})
	}

	if prev == nilIndex {
		pg.arena[idx] = vertex{p: p, next: idx, prev: idx}
		pg.head = idx
	} else {
		next := pg.arena[prev].next
		pg.arena[idx] = vertex{p: p, next: next, prev: prev}
		pg.arena[prev].next = idx
		pg.arena[next].prev = idx
	}

	pg.n++
	return idx
}

func (pg *Polygon) release(i int) {
	pg.arena[i] = vertex{next: nilIndex, prev: nilIndex}
	pg.free = append(pg.free, i)
	pg.n--
}

func (pg *Polygon) clear() {
	pg.arena = pg.arena[:0]
	pg.free = pg.free[:0]
	pg.head = nilIndex
	pg.n = 0
}
