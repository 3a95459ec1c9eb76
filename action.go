package sgsolve

import (
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/sgsolve/geom"
	"github.com/timpalpant/sgsolve/matrixgame"
)

// ActionRecord describes how one action pair can be supported at one
// iteration. Records are rebuilt from scratch every iteration since the
// approximation they are computed against changes.
type ActionRecord struct {
	State  int
	Action ActionPair
	// MinIC is, per player, the smallest expected continuation value that
	// deters every deviation. It is -Inf for a player who is unconstrained
	// or has no alternative action.
	MinIC [2]float64
	// Continuations are the vertices of the set of feasible expected
	// continuation values satisfying MinIC.
	Continuations []geom.Point
	// Generated are the payoffs (1-δ)u + δw for each continuation w.
	Generated []geom.Point
	// Extreme indexes the generated payoff that is maximal in the
	// direction of the iteration, and Value is its level.
	Extreme int
	Value   float64
}

// Continuation returns the extreme continuation value.
func (r *ActionRecord) Continuation() geom.Point {
	return r.Continuations[r.Extreme]
}

// Payoff returns the extreme generated payoff.
func (r *ActionRecord) Payoff() geom.Point {
	return r.Generated[r.Extreme]
}

// deviationTable holds, for one state, each player's normalized value
// from every action profile when that profile is reached by a deviation
// and the deviator is then punished:
//
//	(1-δ)/δ · u_i(a) + Σ_s' π(s'|a) · threat_i(s')
type deviationTable [2][][]float64

// actionProblem is the snapshot one action pair is solved against.
type actionProblem struct {
	state         int
	action        ActionPair
	flow          geom.Point
	transition    []float64
	deviations    *deviationTable
	unconstrained [2]bool
	delta         float64
	// polygons holds the current vertices of every state's approximation.
	polygons  [][]geom.Point
	direction geom.Point
	tol       float64
}

// solveAction decides whether the action pair can be supported by
// continuation values drawn from the current approximation, and if so
// finds the extreme generated payoff in the direction. It returns false
// if no incentive compatible continuation exists.
func solveAction(p *actionProblem) (ActionRecord, bool, error) {
	rec := ActionRecord{
		State:  p.state,
		Action: p.action,
		MinIC:  p.minIC(),
	}

	feasible := geom.WeightedSum(p.polygons, p.transition, p.tol)
	feasible = geom.ClipLowerBounds(feasible, rec.MinIC, p.tol)
	if len(feasible) == 0 {
		return rec, false, nil
	}

	rec.Continuations = feasible
	rec.Generated = geom.Affine(feasible, p.flow.Scale(1-p.delta), p.delta)
	for _, g := range rec.Generated {
		if !g.IsFinite() {
			return rec, false, errors.Wrapf(ErrNumericalDegenerate,
				"state %d action %v generated payoff %v", p.state, p.action, g)
		}
	}

	rec.Value, rec.Extreme = geom.Support(rec.Generated, p.direction)
	return rec, true, nil
}

// minIC returns each player's incentive constraint on the expected
// continuation value. Playing a_i instead of deviating to a_i' requires
//
//	(1-δ)u_i(a) + δw_i ≥ (1-δ)u_i(a_i',a_-i) + δE[threat_i | a_i',a_-i]
//
// which is w_i ≥ max over a_i' of the deviation table, less (1-δ)/δ·u_i(a).
func (p *actionProblem) minIC() [2]float64 {
	result := [2]float64{math.Inf(-1), math.Inf(-1)}
	ratio := (1 - p.delta) / p.delta
	a := p.action
	if !p.unconstrained[0] {
		dev, _ := matrixgame.BestRowDeviation(p.deviations[0], a.A1, a.A2)
		result[0] = dev - ratio*p.flow.X
	}
	if !p.unconstrained[1] {
		dev, _ := matrixgame.BestColDeviation(p.deviations[1], a.A1, a.A2)
		result[1] = dev - ratio*p.flow.Y
	}

	return result
}
