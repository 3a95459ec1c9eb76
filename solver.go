package sgsolve

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// ProgressFunc is called after every iteration of a solve.
type ProgressFunc func(a *Approx, outcome Outcome)

// Solver runs an approximation to completion.
type Solver struct {
	env Env

	// Progress, if set, is called after every iteration.
	Progress ProgressFunc

	approx *Approx
}

func NewSolver(game Game, env Env) (*Solver, error) {
	approx, err := NewApprox(game, env)
	if err != nil {
		return nil, err
	}

	return &Solver{
		env:    env,
		approx: approx,
	}, nil
}

// Approx returns the approximation being solved.
func (s *Solver) Approx() *Approx {
	return s.approx
}

// Solve iterates until the approximation converges, fails, reaches the
// iteration limit, or ctx is done. The returned solution is always
// non-nil and holds the best available approximation. The error is nil
// on convergence, wraps ErrNotConverged when the iteration limit was
// reached, is the failure otherwise, or ctx.Err() if the solve was
// canceled.
func (s *Solver) Solve(ctx context.Context) (*Solution, error) {
	id := uuid.New()
	a := s.approx
	a.Initialize()
	glog.Infof("[%v] Solving game with %d states, discount %v, tolerance %v",
		id, a.game.NumStates(), a.delta, s.env.Tolerance)

	start := time.Now()
	for !a.Status().IsTerminal() {
		if err := ctx.Err(); err != nil {
			a.End()
			glog.Warningf("[%v] Solve canceled after %d iterations: %v",
				id, a.NumIterations(), err)
			return a.solution(id), err
		}

		outcome := a.Step()
		if s.Progress != nil {
			s.Progress(a, outcome)
		}

		if outcome.RevolutionComplete {
			glog.Infof("[%v] Revolution %d: %d iterations, distance %.3g (%.1f iter/sec)",
				id, outcome.Revolution+1, outcome.Iteration, outcome.RevolutionDistance,
				float64(outcome.Iteration)/time.Since(start).Seconds())
		}
	}

	sol := a.solution(id)
	switch sol.Status {
	case Converged:
		glog.Infof("[%v] Converged after %d iterations (%d revolutions) in %v",
			id, sol.NumIterations, sol.NumRevolutions, time.Since(start))
	case NotConverged:
		glog.Warningf("[%v] Did not converge: %v", id, sol.Err)
	case Failed:
		glog.Errorf("[%v] Solve failed: %v", id, sol.Err)
	}

	return sol, sol.Err
}
