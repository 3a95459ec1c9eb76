package games

import (
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/sgsolve"
)

// RiskSharingParams configures a risk sharing game.
type RiskSharingParams struct {
	Delta float64
	// NumEndowments is the number of states. In state e player 1 is
	// endowed with e/(NumEndowments-1) and player 2 with the rest.
	NumEndowments int
	// ConsumptionSteps is the number of transfer increments per
	// endowment increment.
	ConsumptionSteps int
	// Persistence is the probability that the endowment stays the same.
	// Otherwise it is drawn uniformly.
	Persistence float64
}

func DefaultRiskSharingParams() RiskSharingParams {
	return RiskSharingParams{
		Delta:            0.85,
		NumEndowments:    3,
		ConsumptionSteps: 5,
		Persistence:      0,
	}
}

// RiskSharing is a Kocherlakota (1996) style risk sharing game. Two
// players with concave utility receive stochastic endowments that sum to
// one, and each may transfer part of their endowment to the other.
// Players' actions are transfer amounts on a grid.
type RiskSharing struct {
	params RiskSharingParams
}

// NewRiskSharingGame builds the game. On path at most one player makes a
// transfer.
func NewRiskSharingGame(params RiskSharingParams) (*sgsolve.RuleGame, error) {
	if params.NumEndowments < 2 {
		return nil, errors.Wrapf(sgsolve.ErrInvalidGame,
			"risk sharing needs at least 2 endowments, got %d", params.NumEndowments)
	}
	if params.ConsumptionSteps < 1 {
		return nil, errors.Wrapf(sgsolve.ErrInvalidGame,
			"risk sharing needs at least 1 consumption step, got %d", params.ConsumptionSteps)
	}
	if !(params.Persistence >= 0 && params.Persistence <= 1) {
		return nil, errors.Wrapf(sgsolve.ErrInvalidGame,
			"persistence %v not in [0, 1]", params.Persistence)
	}

	rs := &RiskSharing{params}
	numActions := make([][2]int, params.NumEndowments)
	for e := range numActions {
		numActions[e] = rs.numActions(e)
	}

	game := sgsolve.NewRuleGame(params.Delta, numActions, rs)
	game.SetEquilibriumActions(rs.oneSidedTransfers)
	if err := sgsolve.Validate(game); err != nil {
		return nil, err
	}

	return game, nil
}

func (rs *RiskSharing) numActions(state int) [2]int {
	steps := rs.params.ConsumptionSteps
	last := rs.params.NumEndowments - 1
	return [2]int{state*steps + 1, (last-state)*steps + 1}
}

// Endowments returns each player's endowment in the state.
func (rs *RiskSharing) Endowments(state int) [2]float64 {
	e := float64(state) / float64(rs.params.NumEndowments-1)
	return [2]float64{e, 1 - e}
}

// Transfer returns the amount transferred by playing the action.
func (rs *RiskSharing) Transfer(action int) float64 {
	step := 1 / float64((rs.params.NumEndowments-1)*rs.params.ConsumptionSteps)
	return float64(action) * step
}

// Consumption returns what each player consumes after transfers.
func (rs *RiskSharing) Consumption(state int, a sgsolve.ActionPair) [2]float64 {
	endowments := rs.Endowments(state)
	t1, t2 := rs.Transfer(a.A1), rs.Transfer(a.A2)
	// Transfers are bounded by the endowment up to rounding.
	return [2]float64{
		math.Max(0, endowments[0]-t1+t2),
		math.Max(0, endowments[1]-t2+t1),
	}
}

func (rs *RiskSharing) Payoffs(state int, a sgsolve.ActionPair) [2]float64 {
	c := rs.Consumption(state, a)
	return [2]float64{math.Sqrt(c[0]), math.Sqrt(c[1])}
}

func (rs *RiskSharing) Transition(state int, a sgsolve.ActionPair) []float64 {
	n := rs.params.NumEndowments
	p := rs.params.Persistence
	prob := make([]float64, n)
	for next := range prob {
		prob[next] = (1 - p) / float64(n)
	}
	prob[state] += p
	return prob
}

func (rs *RiskSharing) oneSidedTransfers(state int) []sgsolve.ActionPair {
	n := rs.numActions(state)
	var result []sgsolve.ActionPair
	for a1 := 0; a1 < n[0]; a1++ {
		for a2 := 0; a2 < n[1]; a2++ {
			if a1 == 0 || a2 == 0 {
				result = append(result, sgsolve.ActionPair{A1: a1, A2: a2})
			}
		}
	}

	return result
}
