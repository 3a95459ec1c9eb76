package sgsolve

import (
	"github.com/pkg/errors"
)

var (
	// ErrInfeasibleState means some state has no action pair with
	// incentive-compatible support: the correspondence is empty there.
	ErrInfeasibleState = errors.New("no action pair can be supported in state")
	// ErrNumericalDegenerate means the computation produced non-finite
	// values or the direction stopped advancing.
	ErrNumericalDegenerate = errors.New("numerically degenerate approximation")
	// ErrNotConverged means the iteration cap was reached before the
	// approximation converged. The best-effort approximation is still
	// available.
	ErrNotConverged = errors.New("iteration limit reached before convergence")

	ErrInvalidGame = errors.New("invalid game")
	ErrInvalidEnv  = errors.New("invalid solver environment")
)
