package sgsolve

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/timpalpant/sgsolve/geom"
)

// Solution is a snapshot of an approximation when it stopped.
type Solution struct {
	ID   uuid.UUID
	Game *TabulatedGame
	Env  Env

	Status Status
	// Err is why the approximation did not converge, if it did not.
	Err error

	NumIterations       int
	NumRevolutions      int
	Distance            float64
	RevolutionDistances []float64

	// Polygons holds the vertices of each state's payoff set, in
	// counter-clockwise order.
	Polygons [][]geom.Point
	Threats  [][2]float64
	// Trajectory is the pivot at initialization and after each iteration.
	Trajectory [][]geom.Point
	Iterations []Iteration
}

// Solution returns a snapshot of the approximation with a new ID.
func (a *Approx) Solution() *Solution {
	return a.solution(uuid.New())
}

func (a *Approx) solution(id uuid.UUID) *Solution {
	return &Solution{
		ID:                  id,
		Game:                a.game,
		Env:                 a.env,
		Status:              a.status,
		Err:                 a.err,
		NumIterations:       a.numIterations,
		NumRevolutions:      a.numRevolutions,
		Distance:            a.distance,
		RevolutionDistances: append([]float64(nil), a.revolutionDistances...),
		Polygons:            a.Polygons(),
		Threats:             a.Threats(),
		Trajectory:          append([][]geom.Point(nil), a.trajectory...),
		Iterations:          append([]Iteration(nil), a.iterations...),
	}
}

// Polygon returns the vertices of the state's payoff set.
func (sol *Solution) Polygon(state int) []geom.Point {
	return sol.Polygons[state]
}

// String implements fmt.Stringer.
func (sol *Solution) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "solution %v: %v after %d iterations (%d revolutions), distance %.3g\n",
		sol.ID, sol.Status, sol.NumIterations, sol.NumRevolutions, sol.Distance)
	if sol.Err != nil {
		fmt.Fprintf(&buf, "  error: %v\n", sol.Err)
	}

	for s, polygon := range sol.Polygons {
		fmt.Fprintf(&buf, "  state %d: threats %v, %d vertices\n",
			s, sol.Threats[s], len(polygon))
		for _, p := range polygon {
			fmt.Fprintf(&buf, "    %v\n", p)
		}
	}

	return buf.String()
}
