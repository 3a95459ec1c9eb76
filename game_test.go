package sgsolve

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestNewTabulatedGame(t *testing.T) {
	numActions := [][2]int{{1, 2}}
	payoffs := [][][2]float64{{{1, 0}, {0, 1}}}
	transitions := [][][]float64{{{1}, {1}}}

	testCases := []struct {
		name        string
		delta       float64
		numActions  [][2]int
		payoffs     [][][2]float64
		transitions [][][]float64
		valid       bool
	}{
		{"valid", 0.9, numActions, payoffs, transitions, true},
		{"zero discount", 0, numActions, payoffs, transitions, false},
		{"unit discount", 1, numActions, payoffs, transitions, false},
		{"no states", 0.9, nil, nil, nil, false},
		{"missing payoff", 0.9, numActions, [][][2]float64{{{1, 0}}}, transitions, false},
		{"short transition", 0.9, numActions, payoffs, [][][]float64{{{1}, {}}}, false},
		{"probabilities", 0.9, numActions, payoffs, [][][]float64{{{1}, {0.5}}}, false},
		{"negative", 0.9, [][2]int{{1, 1}, {1, 1}},
			[][][2]float64{{{0, 0}}, {{0, 0}}},
			[][][]float64{{{1.5, -0.5}}, {{0, 1}}}, false},
		{"no actions", 0.9, [][2]int{{0, 1}}, [][][2]float64{{}}, [][][]float64{{}}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTabulatedGame(tc.delta, tc.numActions, tc.payoffs, tc.transitions)
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid && errors.Cause(err) != ErrInvalidGame {
				t.Fatalf("expected ErrInvalidGame, got %v", err)
			}
		})
	}
}

func TestTabulatedGameLookup(t *testing.T) {
	g := newTwoStateGame(t, 0.85)
	if g.NumStates() != 2 {
		t.Fatalf("expected 2 states, got %d", g.NumStates())
	}

	if u := g.Payoffs(0, ActionPair{0, 1}); u != [2]float64{-1, 2} {
		t.Errorf("expected (-1, 2), got %v", u)
	}
	if u := g.Payoffs(1, ActionPair{1, 0}); u != [2]float64{3, 0} {
		t.Errorf("expected (3, 0), got %v", u)
	}
	if p := g.Transition(0, ActionPair{1, 1}); !reflect.DeepEqual(p, []float64{0.4, 0.6}) {
		t.Errorf("expected [0.4 0.6], got %v", p)
	}
}

func TestSetEquilibriumActions(t *testing.T) {
	g := newTwoStateGame(t, 0.85)
	if err := g.SetEquilibriumActions(0, []ActionPair{{1, 1}}); err != nil {
		t.Fatal(err)
	}
	if eq := g.EquilibriumActions(0); !reflect.DeepEqual(eq, []ActionPair{{1, 1}}) {
		t.Errorf("expected [{1 1}], got %v", eq)
	}
	if eq := g.EquilibriumActions(1); eq != nil {
		t.Errorf("expected no restriction in state 1, got %v", eq)
	}

	if err := g.SetEquilibriumActions(1, []ActionPair{{2, 0}}); errors.Cause(err) != ErrInvalidGame {
		t.Errorf("expected ErrInvalidGame, got %v", err)
	}
	if err := g.SetEquilibriumActions(2, nil); errors.Cause(err) != ErrInvalidGame {
		t.Errorf("expected ErrInvalidGame, got %v", err)
	}
}

// cyclicRule moves to the next state whatever is played and pays each
// player their own action index plus the state.
type cyclicRule struct {
	numStates int
}

func (r cyclicRule) Payoffs(state int, a ActionPair) [2]float64 {
	return [2]float64{float64(a.A1 + state), float64(a.A2 + state)}
}

func (r cyclicRule) Transition(state int, a ActionPair) []float64 {
	p := make([]float64, r.numStates)
	p[(state+1)%r.numStates] = 1
	return p
}

func TestTabulateRuleGame(t *testing.T) {
	rg := NewRuleGame(0.5, [][2]int{{2, 3}, {1, 2}, {2, 2}}, cyclicRule{3})
	rg.SetUnconstrained([2]bool{false, true})
	rg.SetEquilibriumActions(func(state int) []ActionPair {
		if state == 1 {
			return []ActionPair{{0, 1}}
		}
		return nil
	})

	if err := Validate(rg); err != nil {
		t.Fatal(err)
	}

	g, err := TabulateGame(rg)
	if err != nil {
		t.Fatal(err)
	}

	if g.NumStates() != 3 {
		t.Fatalf("expected 3 states, got %d", g.NumStates())
	}
	if g.Discount() != 0.5 {
		t.Errorf("expected discount 0.5, got %v", g.Discount())
	}
	if g.Unconstrained() != [2]bool{false, true} {
		t.Errorf("expected player 2 unconstrained, got %v", g.Unconstrained())
	}

	for s := 0; s < 3; s++ {
		n := g.NumActions(s)
		for a1 := 0; a1 < n[0]; a1++ {
			for a2 := 0; a2 < n[1]; a2++ {
				a := ActionPair{a1, a2}
				if g.Payoffs(s, a) != rg.Payoffs(s, a) {
					t.Errorf("state %d action %v: expected %v, got %v",
						s, a, rg.Payoffs(s, a), g.Payoffs(s, a))
				}
				if !reflect.DeepEqual(g.Transition(s, a), rg.Transition(s, a)) {
					t.Errorf("state %d action %v: expected %v, got %v",
						s, a, rg.Transition(s, a), g.Transition(s, a))
				}
			}
		}
	}

	if eq := g.EquilibriumActions(1); !reflect.DeepEqual(eq, []ActionPair{{0, 1}}) {
		t.Errorf("expected [{0 1}], got %v", eq)
	}
	if eq := g.EquilibriumActions(0); eq != nil {
		t.Errorf("expected no restriction in state 0, got %v", eq)
	}
}

func TestValidateRuleGame(t *testing.T) {
	rg := NewRuleGame(0.5, [][2]int{{2, 2}, {2, 2}}, cyclicRule{3})
	if err := Validate(rg); errors.Cause(err) != ErrInvalidGame {
		t.Errorf("expected ErrInvalidGame for mis-sized transitions, got %v", err)
	}

	rg = NewRuleGame(0.5, [][2]int{{2, 2}}, cyclicRule{1})
	rg.SetEquilibriumActions(func(int) []ActionPair { return []ActionPair{{0, 2}} })
	if err := Validate(rg); errors.Cause(err) != ErrInvalidGame {
		t.Errorf("expected ErrInvalidGame for out of range whitelist, got %v", err)
	}
}
