// Solves an example stochastic game and prints the equilibrium payoff sets.
package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/sgsolve"
	"github.com/timpalpant/sgsolve/games"
)

type RunParams struct {
	Game          string
	Delta         float64
	StoreMode     string
	PprofAddr     string
	Env           sgsolve.Env
	RiskSharing   games.RiskSharingParams
	PrintPolygons bool
}

func main() {
	params := RunParams{
		Env:         sgsolve.DefaultEnv(),
		RiskSharing: games.DefaultRiskSharingParams(),
	}
	flag.StringVar(&params.Game, "game", "risksharing",
		"Game to solve: pd, abreusannikov or risksharing")
	flag.Float64Var(&params.Delta, "delta", 0, "Discount factor (0 uses the game's default)")
	flag.Float64Var(&params.Env.Tolerance, "tolerance", params.Env.Tolerance,
		"Convergence tolerance")
	flag.IntVar(&params.Env.MaxIterations, "max_iterations", params.Env.MaxIterations,
		"Maximum number of iterations")
	flag.StringVar(&params.StoreMode, "store", params.Env.StoreIterations.String(),
		"Iterations to keep: none, all or last")
	flag.BoolVar(&params.Env.StoreActions, "store_actions", false,
		"Keep per-action records in stored iterations")
	flag.IntVar(&params.Env.Workers, "workers", params.Env.Workers,
		"Number of concurrent action evaluations")
	flag.IntVar(&params.RiskSharing.NumEndowments, "risksharing.endowments",
		params.RiskSharing.NumEndowments, "Number of endowment states")
	flag.IntVar(&params.RiskSharing.ConsumptionSteps, "risksharing.c2e",
		params.RiskSharing.ConsumptionSteps, "Transfer increments per endowment increment")
	flag.Float64Var(&params.RiskSharing.Persistence, "risksharing.persistence",
		params.RiskSharing.Persistence, "Probability the endowment is unchanged")
	flag.StringVar(&params.PprofAddr, "pprof_addr", "", "Serve pprof and expvar on this address")
	flag.BoolVar(&params.PrintPolygons, "print", true, "Print the final payoff sets")
	flag.Parse()

	storage, err := sgsolve.ParseIterationStorage(params.StoreMode)
	if err != nil {
		glog.Fatal(err)
	}
	params.Env.StoreIterations = storage

	if params.PprofAddr != "" {
		go http.ListenAndServe(params.PprofAddr, nil)
	}

	game, err := loadGame(params)
	if err != nil {
		glog.Fatalf("Unable to build game %q: %v", params.Game, err)
	}

	for s := 0; s < game.NumStates(); s++ {
		glog.Infof("State %d: stage Nash %v, pure minmax %v", s,
			games.StageNash(game, s, params.Env.Tolerance), games.StageMinmax(game, s))
	}

	solver, err := sgsolve.NewSolver(game, params.Env)
	if err != nil {
		glog.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	sol, err := solver.Solve(ctx)
	if err != nil {
		glog.Errorf("Solve did not converge: %v", err)
	}

	glog.Infof("%d iterations, %s action evaluations", sol.NumIterations,
		expvar.Get("approx/action_evaluations"))
	if params.PrintPolygons {
		fmt.Print(sol)
	}

	glog.Flush()
	if sol.Status != sgsolve.Converged {
		os.Exit(1)
	}
}

func loadGame(params RunParams) (sgsolve.Game, error) {
	switch params.Game {
	case "pd":
		return games.TwoStatePD(withDefault(params.Delta, 0.85))
	case "abreusannikov":
		return games.AbreuSannikov(withDefault(params.Delta, games.AbreuSannikovDelta))
	case "risksharing":
		rs := params.RiskSharing
		rs.Delta = withDefault(params.Delta, rs.Delta)
		return games.NewRiskSharingGame(rs)
	default:
		return nil, errors.Errorf("unknown game %q", params.Game)
	}
}

func withDefault(delta, defaultDelta float64) float64 {
	if delta == 0 {
		return defaultDelta
	}

	return delta
}
