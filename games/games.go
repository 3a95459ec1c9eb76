// Package games constructs example stochastic games.
package games

import (
	"github.com/timpalpant/sgsolve"
)

// TwoStatePD returns a two-state game with a prisoners' dilemma in each
// state (C=0, D=1). State 1 pays one more than state 0 for every profile
// and is stickier. Mutual defection makes state 1 likelier from state 0.
func TwoStatePD(delta float64) (*sgsolve.TabulatedGame, error) {
	numActions := [][2]int{{2, 2}, {2, 2}}
	payoffs := [][][2]float64{
		{{1, 1}, {-1, 2}, {2, -1}, {0, 0}},
		{{2, 2}, {0, 3}, {3, 0}, {1, 1}},
	}
	transitions := [][][]float64{
		{{0.7, 0.3}, {0.7, 0.3}, {0.7, 0.3}, {0.4, 0.6}},
		{{0.3, 0.7}, {0.3, 0.7}, {0.3, 0.7}, {0.5, 0.5}},
	}

	return sgsolve.NewTabulatedGame(delta, numActions, payoffs, transitions)
}

// AbreuSannikovDelta is the discount factor the game was studied at.
const AbreuSannikovDelta = 0.3

// AbreuSannikov returns the one-state 3x3 game of Abreu and Sannikov
// (2014). Its stage Nash equilibrium is the middle profile.
func AbreuSannikov(delta float64) (*sgsolve.TabulatedGame, error) {
	numActions := [][2]int{{3, 3}}
	payoffs := [][][2]float64{{
		{16, 9}, {3, 13}, {0, 3},
		{21, 1}, {10, 4}, {-1, 0},
		{9, 0}, {5, -4}, {-5, -15},
	}}
	transitions := [][][]float64{make([][]float64, 9)}
	for i := range transitions[0] {
		transitions[0][i] = []float64{1}
	}

	return sgsolve.NewTabulatedGame(delta, numActions, payoffs, transitions)
}
