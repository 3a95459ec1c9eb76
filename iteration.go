package sgsolve

import (
	"fmt"

	"github.com/timpalpant/sgsolve/geom"
)

// Iteration records how the pivot was generated at one step.
type Iteration struct {
	Iteration  int
	Revolution int
	// Angle and Direction give the direction the pivot was found in.
	Angle     float64
	Direction geom.Point
	// Pivot is the new extreme payoff in every state, and Actions are the
	// action pairs that generated it.
	Pivot   []geom.Point
	Actions []ActionPair
	// Threats are the punishment payoffs after the update.
	Threats  [][2]float64
	Distance float64
	// Records are the per-state action records that could be supported,
	// if the environment stores actions.
	Records [][]ActionRecord
	// Dead lists the action pairs of each state that had no incentive
	// compatible continuation.
	Dead [][]ActionPair
}

// String implements fmt.Stringer.
func (it *Iteration) String() string {
	return fmt.Sprintf("iteration %d (revolution %d): direction %v, pivot %v, actions %v, distance %.3g",
		it.Iteration, it.Revolution, it.Direction, it.Pivot, it.Actions, it.Distance)
}
