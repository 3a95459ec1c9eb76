// Package matrixgame implements pure-strategy best responses and equilibria
// of two-player bimatrix stage games.
//
// Matrices are indexed [row][col], where player 0 chooses the row and
// player 1 chooses the column.
package matrixgame

import (
	"math"
)

// BestRowDeviation returns the best value player 0 can obtain in column
// col by playing any row other than row, and the row attaining it. If the
// matrix has a single row, it returns -Inf and -1.
func BestRowDeviation(values [][]float64, row, col int) (float64, int) {
	best := math.Inf(-1)
	bestIdx := -1
	for i := range values {
		if i == row {
			continue
		}

		if v := values[i][col]; v > best {
			best = v
			bestIdx = i
		}
	}

	return best, bestIdx
}

// BestColDeviation returns the best value player 1 can obtain in row row
// by playing any column other than col, and the column attaining it. If
// the matrix has a single column, it returns -Inf and -1.
func BestColDeviation(values [][]float64, row, col int) (float64, int) {
	best := math.Inf(-1)
	bestIdx := -1
	for j, v := range values[row] {
		if j == col {
			continue
		}

		if v > best {
			best = v
			bestIdx = j
		}
	}

	return best, bestIdx
}

// RowBestResponse returns player 0's best value against column col.
func RowBestResponse(values [][]float64, col int) (float64, int) {
	column := make([]float64, len(values))
	for i := range values {
		column[i] = values[i][col]
	}

	return argMax(column)
}

// ColBestResponse returns player 1's best value against row row.
func ColBestResponse(values [][]float64, row int) (float64, int) {
	return argMax(values[row])
}

// argMax returns the maximum and the lowest index attaining it.
func argMax(vs []float64) (float64, int) {
	best := math.Inf(-1)
	bestIdx := -1
	for i, v := range vs {
		if v > best {
			best = v
			bestIdx = i
		}
	}

	return best, bestIdx
}
