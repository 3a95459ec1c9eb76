package games

import (
	"math"
	"testing"

	"github.com/timpalpant/sgsolve"
	"github.com/timpalpant/sgsolve/geom"
)

// stageNash returns a pure Nash equilibrium of each state's stage game.
func stageNash(t *testing.T, game sgsolve.Game) []sgsolve.ActionPair {
	result := make([]sgsolve.ActionPair, game.NumStates())
	for s := range result {
		eq := StageNash(game, s, 1e-12)
		if len(eq) == 0 {
			t.Fatalf("state %d has no pure Nash equilibrium", s)
		}
		result[s] = eq[0]
	}

	return result
}

// stationaryPayoffs returns the discounted average payoffs of playing
// the given profile in each state forever.
func stationaryPayoffs(game sgsolve.Game, profile []sgsolve.ActionPair) []geom.Point {
	delta := game.Discount()
	v := make([]geom.Point, game.NumStates())
	for iter := 0; iter < 5000; iter++ {
		next := make([]geom.Point, len(v))
		for s, a := range profile {
			u := game.Payoffs(s, a)
			next[s] = geom.Point{X: u[0], Y: u[1]}.Scale(1 - delta)
			for s2, p := range game.Transition(s, a) {
				next[s] = next[s].Add(v[s2].Scale(delta * p))
			}
		}
		v = next
	}

	return v
}

func contains(polygon []geom.Point, p geom.Point, tol float64) bool {
	if len(polygon) == 1 {
		return polygon[0].Equal(p, tol)
	}

	for i, a := range polygon {
		b := polygon[(i+1)%len(polygon)]
		edge := b.Sub(a)
		if edge.Norm() == 0 {
			continue
		}
		if edge.Cross(p.Sub(a))/edge.Norm() < -tol {
			return false
		}
	}

	return len(polygon) > 0
}

// checkContainsStageNash runs a capped solve and checks that repeating
// the stage Nash equilibria survives, since it is always an equilibrium.
func checkContainsStageNash(t *testing.T, game sgsolve.Game, maxIter int) *sgsolve.Approx {
	env := sgsolve.DefaultEnv()
	env.MaxIterations = maxIter
	env.StoreIterations = sgsolve.StoreNone
	a, err := sgsolve.NewApprox(game, env)
	if err != nil {
		t.Fatal(err)
	}

	a.Initialize()
	for !a.Status().IsTerminal() {
		a.Step()
	}
	if a.Status() == sgsolve.Failed {
		t.Fatalf("solve failed: %v", a.Err())
	}

	nash := stationaryPayoffs(game, stageNash(t, game))
	for s, v := range nash {
		if !contains(a.Polygon(s), v, 1e-5) {
			t.Errorf("state %d: stage Nash payoff %v not in %v", s, v, a.Polygon(s))
		}
	}

	return a
}

func TestTwoStatePD(t *testing.T) {
	game, err := TwoStatePD(0.85)
	if err != nil {
		t.Fatal(err)
	}

	nash := stageNash(t, game)
	for s, a := range nash {
		if a != (sgsolve.ActionPair{A1: 1, A2: 1}) {
			t.Errorf("state %d: expected mutual defection, got %v", s, a)
		}
	}

	checkContainsStageNash(t, game, 2000)
}

func TestAbreuSannikov(t *testing.T) {
	game, err := AbreuSannikov(AbreuSannikovDelta)
	if err != nil {
		t.Fatal(err)
	}

	if nash := stageNash(t, game); nash[0] != (sgsolve.ActionPair{A1: 1, A2: 1}) {
		t.Errorf("expected middle profile, got %v", nash[0])
	}

	a := checkContainsStageNash(t, game, 5000)
	if !contains(a.Polygon(0), geom.Point{X: 10, Y: 4}, 1e-5) {
		t.Errorf("expected (10, 4) in %v", a.Polygon(0))
	}
}

func TestRiskSharingStructure(t *testing.T) {
	params := RiskSharingParams{
		Delta:            0.85,
		NumEndowments:    3,
		ConsumptionSteps: 2,
		Persistence:      0.5,
	}
	game, err := NewRiskSharingGame(params)
	if err != nil {
		t.Fatal(err)
	}

	expected := [][2]int{{1, 5}, {3, 3}, {5, 1}}
	for s, n := range expected {
		if game.NumActions(s) != n {
			t.Errorf("state %d: expected %v actions, got %v", s, n, game.NumActions(s))
		}
	}

	rs := game.Rule.(*RiskSharing)
	if e := rs.Endowments(1); e != [2]float64{0.5, 0.5} {
		t.Errorf("expected equal endowments, got %v", e)
	}
	if tr := rs.Transfer(2); math.Abs(tr-0.5) > 1e-12 {
		t.Errorf("expected transfer 0.5, got %v", tr)
	}

	// Player 2 gives away everything in state 0.
	u := game.Payoffs(0, sgsolve.ActionPair{A1: 0, A2: 4})
	if math.Abs(u[0]-1) > 1e-12 || math.Abs(u[1]) > 1e-12 {
		t.Errorf("expected (1, 0), got %v", u)
	}

	prob := game.Transition(1, sgsolve.ActionPair{})
	want := []float64{1.0 / 6, 1.0/6 + 0.5, 1.0 / 6}
	for s := range prob {
		if math.Abs(prob[s]-want[s]) > 1e-12 {
			t.Errorf("expected transition %v, got %v", want, prob)
			break
		}
	}

	for s := range expected {
		for _, a := range game.EquilibriumActions(s) {
			if a.A1 != 0 && a.A2 != 0 {
				t.Errorf("state %d: two-sided transfer %v allowed", s, a)
			}
		}
	}
	if n := len(game.EquilibriumActions(1)); n != 5 {
		t.Errorf("expected 5 one-sided transfers in state 1, got %d", n)
	}
}

func TestRiskSharingInvalid(t *testing.T) {
	for _, params := range []RiskSharingParams{
		{Delta: 0.85, NumEndowments: 1, ConsumptionSteps: 1},
		{Delta: 0.85, NumEndowments: 3, ConsumptionSteps: 0},
		{Delta: 0.85, NumEndowments: 3, ConsumptionSteps: 1, Persistence: 2},
		{Delta: 1, NumEndowments: 3, ConsumptionSteps: 1},
	} {
		if _, err := NewRiskSharingGame(params); err == nil {
			t.Errorf("expected error for %+v", params)
		}
	}
}

func TestRiskSharingAutarky(t *testing.T) {
	params := DefaultRiskSharingParams()
	params.ConsumptionSteps = 2
	game, err := NewRiskSharingGame(params)
	if err != nil {
		t.Fatal(err)
	}

	nash := stageNash(t, game)
	for s, a := range nash {
		if a != (sgsolve.ActionPair{}) {
			t.Errorf("state %d: expected no transfers, got %v", s, a)
		}
	}

	checkContainsStageNash(t, game, 1000)
}

func TestStageMinmax(t *testing.T) {
	game, err := TwoStatePD(0.85)
	if err != nil {
		t.Fatal(err)
	}

	expected := [][2]float64{{0, 0}, {1, 1}}
	for s, want := range expected {
		if got := StageMinmax(game, s); got != want {
			t.Errorf("state %d: expected minmax %v, got %v", s, want, got)
		}
	}

	as, err := AbreuSannikov(AbreuSannikovDelta)
	if err != nil {
		t.Fatal(err)
	}
	if got := StageMinmax(as, 0); got != [2]float64{0, 0} {
		t.Errorf("expected minmax (0, 0), got %v", got)
	}
	if eq := StageNash(as, 0, 1e-12); len(eq) != 1 {
		t.Errorf("expected a unique stage Nash equilibrium, got %v", eq)
	}

	p0, p1 := StageMatrices(as, 0)
	if p0[1][0] != 21 || p1[0][1] != 13 {
		t.Errorf("unexpected stage matrices %v, %v", p0, p1)
	}
}
