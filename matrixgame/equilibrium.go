package matrixgame

import (
	"math"
)

// Profile is a pure action profile: a row for player 0 and a column for
// player 1.
type Profile struct {
	Row, Col int
}

// PureNash returns every pure profile from which neither player can gain
// more than tol by deviating, in row-major order. payoffs0 and payoffs1
// hold the two players' payoffs.
func PureNash(payoffs0, payoffs1 [][]float64, tol float64) []Profile {
	var result []Profile
	for i := range payoffs0 {
		for j := range payoffs0[i] {
			dev0, _ := BestRowDeviation(payoffs0, i, j)
			dev1, _ := BestColDeviation(payoffs1, i, j)
			if dev0 <= payoffs0[i][j]+tol && dev1 <= payoffs1[i][j]+tol {
				result = append(result, Profile{i, j})
			}
		}
	}

	return result
}

// PureMinmax returns the lowest payoff each player's opponent can hold
// them to with a pure action, when the player best responds.
func PureMinmax(payoffs0, payoffs1 [][]float64) [2]float64 {
	result := [2]float64{math.Inf(1), math.Inf(1)}
	for j := range payoffs0[0] {
		br, _ := RowBestResponse(payoffs0, j)
		result[0] = math.Min(result[0], br)
	}

	for i := range payoffs1 {
		br, _ := ColBestResponse(payoffs1, i)
		result[1] = math.Min(result[1], br)
	}

	return result
}
