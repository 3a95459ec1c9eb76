// Package sgsolve computes the subgame perfect equilibrium payoff
// correspondence of two-player stochastic games with perfect monitoring
// and public randomization.
package sgsolve

import (
	"math"

	"github.com/pkg/errors"
)

// ActionPair is a pure action profile: A1 is player 1's action index and A2
// is player 2's.
type ActionPair struct {
	A1, A2 int
}

// Game describes a two-player stochastic game with perfect monitoring.
// Implementations must not change while a solve is in progress; the
// solver snapshots the game with TabulateGame when it starts.
type Game interface {
	// NumStates is the number of states.
	NumStates() int
	// NumActions returns the number of actions of each player in the state.
	NumActions(state int) [2]int
	// Payoffs returns the players' flow payoffs.
	Payoffs(state int, a ActionPair) [2]float64
	// Transition returns the distribution over tomorrow's state.
	Transition(state int, a ActionPair) []float64
	// Discount is the common discount factor, in (0, 1).
	Discount() float64
	// Unconstrained reports, per player, whether incentive constraints
	// are ignored for that player.
	Unconstrained() [2]bool
	// EquilibriumActions lists the action pairs that may be played on the
	// equilibrium path in the state. A nil result allows every pair.
	// Players may always deviate to any action.
	EquilibriumActions(state int) []ActionPair
}

// TabulatedGame is a Game whose payoffs and transitions are stored in
// arrays.
type TabulatedGame struct {
	delta         float64
	numActions    [][2]int
	payoffs       [][][2]float64
	transitions   [][][]float64
	unconstrained [2]bool
	eqActions     [][]ActionPair
}

// Verify that we implement the interface.
var _ Game = &TabulatedGame{}

// NewTabulatedGame creates a game from per-state tables. payoffs[s] and
// transitions[s] are indexed by a1*numActions[s][1] + a2.
func NewTabulatedGame(delta float64, numActions [][2]int,
	payoffs [][][2]float64, transitions [][][]float64) (*TabulatedGame, error) {
	g := &TabulatedGame{
		delta:       delta,
		numActions:  numActions,
		payoffs:     payoffs,
		transitions: transitions,
		eqActions:   make([][]ActionPair, len(numActions)),
	}

	if len(payoffs) != len(numActions) || len(transitions) != len(numActions) {
		return nil, errors.Wrapf(ErrInvalidGame,
			"%d states but %d payoff tables and %d transition tables",
			len(numActions), len(payoffs), len(transitions))
	}

	for s, n := range numActions {
		if n[0] <= 0 || n[1] <= 0 {
			return nil, errors.Wrapf(ErrInvalidGame, "state %d has %v actions", s, n)
		}
		if len(payoffs[s]) != n[0]*n[1] || len(transitions[s]) != n[0]*n[1] {
			return nil, errors.Wrapf(ErrInvalidGame,
				"state %d has %d x %d actions but %d payoffs and %d transitions",
				s, n[0], n[1], len(payoffs[s]), len(transitions[s]))
		}
	}

	if err := Validate(g); err != nil {
		return nil, err
	}

	return g, nil
}

// TabulateGame evaluates every payoff and transition of the given game
// and returns an independent TabulatedGame. It is how rule-based games are
// snapshotted before a solve.
func TabulateGame(game Game) (*TabulatedGame, error) {
	n := game.NumStates()
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidGame, "game has %d states", n)
	}

	numActions := make([][2]int, n)
	payoffs := make([][][2]float64, n)
	transitions := make([][][]float64, n)
	for s := 0; s < n; s++ {
		numActions[s] = game.NumActions(s)
		for a1 := 0; a1 < numActions[s][0]; a1++ {
			for a2 := 0; a2 < numActions[s][1]; a2++ {
				a := ActionPair{a1, a2}
				payoffs[s] = append(payoffs[s], game.Payoffs(s, a))
				prob := append([]float64(nil), game.Transition(s, a)...)
				transitions[s] = append(transitions[s], prob)
			}
		}
	}

	g, err := NewTabulatedGame(game.Discount(), numActions, payoffs, transitions)
	if err != nil {
		return nil, err
	}

	g.unconstrained = game.Unconstrained()
	for s := 0; s < n; s++ {
		if eq := game.EquilibriumActions(s); eq != nil {
			if err := g.SetEquilibriumActions(s, eq); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// SetUnconstrained sets whether incentive constraints are ignored for
// each player.
func (g *TabulatedGame) SetUnconstrained(unconstrained [2]bool) {
	g.unconstrained = unconstrained
}

// SetEquilibriumActions restricts the action pairs that may be played on
// path in the state. Passing nil removes the restriction.
func (g *TabulatedGame) SetEquilibriumActions(state int, actions []ActionPair) error {
	if state < 0 || state >= len(g.numActions) {
		return errors.Wrapf(ErrInvalidGame, "state %d out of range", state)
	}

	for _, a := range actions {
		if !g.validAction(state, a) {
			return errors.Wrapf(ErrInvalidGame,
				"equilibrium action %v out of range in state %d", a, state)
		}
	}

	if actions != nil {
		actions = append([]ActionPair{}, actions...)
	}
	g.eqActions[state] = actions
	return nil
}

func (g *TabulatedGame) NumStates() int {
	return len(g.numActions)
}

func (g *TabulatedGame) NumActions(state int) [2]int {
	return g.numActions[state]
}

func (g *TabulatedGame) Payoffs(state int, a ActionPair) [2]float64 {
	return g.payoffs[state][g.index(state, a)]
}

func (g *TabulatedGame) Transition(state int, a ActionPair) []float64 {
	return g.transitions[state][g.index(state, a)]
}

func (g *TabulatedGame) Discount() float64 {
	return g.delta
}

func (g *TabulatedGame) Unconstrained() [2]bool {
	return g.unconstrained
}

func (g *TabulatedGame) EquilibriumActions(state int) []ActionPair {
	return g.eqActions[state]
}

func (g *TabulatedGame) index(state int, a ActionPair) int {
	return a.A1*g.numActions[state][1] + a.A2
}

func (g *TabulatedGame) validAction(state int, a ActionPair) bool {
	n := g.numActions[state]
	return a.A1 >= 0 && a.A1 < n[0] && a.A2 >= 0 && a.A2 < n[1]
}

// Rule defines payoffs and transitions by a rule rather than a table.
type Rule interface {
	Payoffs(state int, a ActionPair) [2]float64
	Transition(state int, a ActionPair) []float64
}

// RuleGame is a Game whose payoffs and transitions are computed by a Rule.
type RuleGame struct {
	Rule

	delta         float64
	numActions    [][2]int
	unconstrained [2]bool
	eqActions     func(state int) []ActionPair
}

// Verify that we implement the interface.
var _ Game = &RuleGame{}

// NewRuleGame creates a game with the given action counts per state whose
// payoffs and transitions are evaluated by rule.
func NewRuleGame(delta float64, numActions [][2]int, rule Rule) *RuleGame {
	return &RuleGame{
		Rule:       rule,
		delta:      delta,
		numActions: numActions,
	}
}

// SetUnconstrained sets whether incentive constraints are ignored for
// each player.
func (g *RuleGame) SetUnconstrained(unconstrained [2]bool) {
	g.unconstrained = unconstrained
}

// SetEquilibriumActions installs a rule choosing the on-path action pairs
// of each state. A nil rule removes the restriction.
func (g *RuleGame) SetEquilibriumActions(eq func(state int) []ActionPair) {
	g.eqActions = eq
}

func (g *RuleGame) NumStates() int {
	return len(g.numActions)
}

func (g *RuleGame) NumActions(state int) [2]int {
	return g.numActions[state]
}

func (g *RuleGame) Discount() float64 {
	return g.delta
}

func (g *RuleGame) Unconstrained() [2]bool {
	return g.unconstrained
}

func (g *RuleGame) EquilibriumActions(state int) []ActionPair {
	if g.eqActions == nil {
		return nil
	}

	return g.eqActions(state)
}

// Validate checks that the game is well formed: a discount factor in
// (0, 1), finite payoffs, and transition distributions over the game's
// states that sum to one.
func Validate(game Game) error {
	delta := game.Discount()
	if !(delta > 0 && delta < 1) {
		return errors.Wrapf(ErrInvalidGame, "discount factor %v not in (0, 1)", delta)
	}

	n := game.NumStates()
	if n <= 0 {
		return errors.Wrapf(ErrInvalidGame, "game has %d states", n)
	}

	for s := 0; s < n; s++ {
		numActions := game.NumActions(s)
		if numActions[0] <= 0 || numActions[1] <= 0 {
			return errors.Wrapf(ErrInvalidGame, "state %d has %v actions", s, numActions)
		}

		for a1 := 0; a1 < numActions[0]; a1++ {
			for a2 := 0; a2 < numActions[1]; a2++ {
				a := ActionPair{a1, a2}
				if err := validateAction(game, n, s, a); err != nil {
					return err
				}
			}
		}

		for _, a := range game.EquilibriumActions(s) {
			if a.A1 < 0 || a.A1 >= numActions[0] || a.A2 < 0 || a.A2 >= numActions[1] {
				return errors.Wrapf(ErrInvalidGame,
					"equilibrium action %v out of range in state %d", a, s)
			}
		}
	}

	return nil
}

func validateAction(game Game, numStates, s int, a ActionPair) error {
	u := game.Payoffs(s, a)
	for player, v := range u {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidGame,
				"state %d action %v: payoff of player %d is %v", s, a, player+1, v)
		}
	}

	prob := game.Transition(s, a)
	if len(prob) != numStates {
		return errors.Wrapf(ErrInvalidGame,
			"state %d action %v: transition has %d entries, expected %d",
			s, a, len(prob), numStates)
	}

	total := 0.0
	for next, p := range prob {
		if !(p >= 0) || math.IsInf(p, 0) {
			return errors.Wrapf(ErrInvalidGame,
				"state %d action %v: probability %v of state %d", s, a, p, next)
		}
		total += p
	}

	if math.Abs(total-1) > probabilityTol {
		return errors.Wrapf(ErrInvalidGame,
			"state %d action %v: transition probabilities sum to %v", s, a, total)
	}

	return nil
}

const probabilityTol = 1e-9
