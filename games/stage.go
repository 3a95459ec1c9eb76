package games

import (
	"github.com/timpalpant/sgsolve"
	"github.com/timpalpant/sgsolve/matrixgame"
)

// StageMatrices returns each player's payoff matrix of the state's stage
// game, indexed [a1][a2].
func StageMatrices(game sgsolve.Game, state int) (payoffs0, payoffs1 [][]float64) {
	n := game.NumActions(state)
	payoffs0 = make([][]float64, n[0])
	payoffs1 = make([][]float64, n[0])
	for a1 := 0; a1 < n[0]; a1++ {
		payoffs0[a1] = make([]float64, n[1])
		payoffs1[a1] = make([]float64, n[1])
		for a2 := 0; a2 < n[1]; a2++ {
			u := game.Payoffs(state, sgsolve.ActionPair{A1: a1, A2: a2})
			payoffs0[a1][a2], payoffs1[a1][a2] = u[0], u[1]
		}
	}

	return payoffs0, payoffs1
}

// StageNash returns the pure Nash equilibria of the state's stage game.
func StageNash(game sgsolve.Game, state int, tol float64) []sgsolve.ActionPair {
	payoffs0, payoffs1 := StageMatrices(game, state)
	var result []sgsolve.ActionPair
	for _, p := range matrixgame.PureNash(payoffs0, payoffs1, tol) {
		result = append(result, sgsolve.ActionPair{A1: p.Row, A2: p.Col})
	}

	return result
}

// StageMinmax returns each player's pure minmax payoff in the state's
// stage game.
func StageMinmax(game sgsolve.Game, state int) [2]float64 {
	return matrixgame.PureMinmax(StageMatrices(game, state))
}
