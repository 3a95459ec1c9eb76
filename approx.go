package sgsolve

import (
	"expvar"
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/timpalpant/sgsolve/geom"
)

var (
	iterationsRun     = expvar.NewInt("approx/iterations")
	revolutionsRun    = expvar.NewInt("approx/revolutions")
	actionEvaluations = expvar.NewInt("approx/action_evaluations")
	deadActions       = expvar.NewInt("approx/dead_actions")
)

// Status is the state of an approximation.
type Status uint8

const (
	NotStarted Status = iota
	Iterating
	Converged
	// NotConverged means the approximation stopped (iteration limit or a
	// forced End) before converging.
	NotConverged
	Failed
)

var statusStr = [...]string{
	"NotStarted",
	"Iterating",
	"Converged",
	"NotConverged",
	"Failed",
}

func (s Status) String() string {
	if int(s) < len(statusStr) {
		return statusStr[s]
	}

	return fmt.Sprintf("Status(%d)", s)
}

// IsTerminal returns whether no further iterations will be run.
func (s Status) IsTerminal() bool {
	return s >= Converged
}

const (
	initialAngle = math.Pi / 2
	// The direction advances by at most a quarter turn per iteration, so
	// point and segment approximations are still cut from every side.
	maxRotation = math.Pi / 2
	minRotation = 1e-12
	fullTurn    = 2 * math.Pi
)

// Outcome is the result of one iteration.
type Outcome struct {
	Iteration  int
	Revolution int
	// Distance is how far the supporting lines through the new pivot cut
	// into the approximation, maximized over states.
	Distance float64
	// RevolutionDistance is the largest Distance so far in the current
	// revolution.
	RevolutionDistance float64
	// RevolutionComplete is set on the iteration that completes a
	// revolution of the direction.
	RevolutionComplete bool
	Status             Status
	Err                error
}

func (o Outcome) Converged() bool {
	return o.Status == Converged
}

func (o Outcome) Failed() bool {
	return o.Status == Failed
}

// Done returns whether the approximation has stopped.
func (o Outcome) Done() bool {
	return o.Status.IsTerminal()
}

// Approx is an approximation of the equilibrium payoff correspondence
// together with the state of the algorithm that refines it.
//
// Every state's payoff set is a convex polygon that starts as a superset
// of the equilibrium payoffs. Each iteration picks a direction, computes
// in every state the extreme payoff that can be generated in that
// direction using incentive compatible continuation values drawn from the
// current approximation (the pivot), and cuts each polygon with the
// supporting line through its pivot. The direction then rotates to the
// next angle at which a different generating payoff becomes extreme.
//
// Approx is not safe for concurrent use.
type Approx struct {
	game  *TabulatedGame
	env   Env
	delta float64
	tol   float64
	// live lists the action pairs that may be played on path, per state.
	live [][]ActionPair

	status Status
	err    error
	last   Outcome

	polygons  []*geom.Polygon
	threats   [][2]float64
	pivot     []geom.Point
	actions   []ActionPair
	angle     float64
	direction geom.Point

	numIterations       int
	numRevolutions      int
	swept               float64
	distance            float64
	revolutionDistance  float64
	revolutionDistances []float64

	trajectory [][]geom.Point
	iterations []Iteration
}

// NewApprox creates an approximation for the game. The game is
// snapshotted, so later changes to it do not affect the approximation.
func NewApprox(game Game, env Env) (*Approx, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	tab, err := TabulateGame(game)
	if err != nil {
		return nil, err
	}

	a := &Approx{
		game:  tab,
		env:   env,
		delta: tab.Discount(),
		tol:   env.Tolerance,
		live:  make([][]ActionPair, tab.NumStates()),
	}

	for s := range a.live {
		if eq := tab.EquilibriumActions(s); eq != nil {
			a.live[s] = eq
			continue
		}

		n := tab.NumActions(s)
		for a1 := 0; a1 < n[0]; a1++ {
			for a2 := 0; a2 < n[1]; a2++ {
				a.live[s] = append(a.live[s], ActionPair{a1, a2})
			}
		}
	}

	return a, nil
}

// Initialize resets the approximation to the convex hull of all stage
// payoffs in every state, with the pivot at the top of each polygon.
func (a *Approx) Initialize() {
	n := a.game.NumStates()
	var payoffs []geom.Point
	for s := 0; s < n; s++ {
		numActions := a.game.NumActions(s)
		for a1 := 0; a1 < numActions[0]; a1++ {
			for a2 := 0; a2 < numActions[1]; a2++ {
				payoffs = append(payoffs, payoffPoint(a.game.Payoffs(s, ActionPair{a1, a2})))
			}
		}
	}

	hull := geom.ConvexHull(payoffs, a.tol)
	a.angle = initialAngle
	a.direction = geom.FromAngle(a.angle)
	a.polygons = make([]*geom.Polygon, n)
	a.pivot = make([]geom.Point, n)
	a.actions = make([]ActionPair, n)
	a.threats = make([][2]float64, n)
	for s := 0; s < n; s++ {
		a.polygons[s] = geom.NewPolygon(hull)
		_, a.pivot[s] = a.polygons[s].Support(a.direction)
	}
	a.updateThreats()

	a.numIterations = 0
	a.numRevolutions = 0
	a.swept = 0
	a.distance = math.Inf(1)
	a.revolutionDistance = 0
	a.revolutionDistances = nil
	a.trajectory = [][]geom.Point{clonePoints(a.pivot)}
	a.iterations = nil
	a.status = Iterating
	a.err = nil
	a.last = Outcome{Status: Iterating, Distance: a.distance}

	glog.V(1).Infof("Initialized approximation with %d states, %d hull vertices",
		n, len(hull))
}

// Step runs one iteration. Once the approximation has stopped, Step does
// nothing and returns the final outcome again.
func (a *Approx) Step() Outcome {
	if a.status != Iterating {
		return a.last
	}

	records, dead, err := a.evaluateActions()
	if err != nil {
		return a.fail(err)
	}

	n := a.game.NumStates()
	pivot := make([]geom.Point, n)
	actions := make([]ActionPair, n)
	levels := make([]float64, n)
	rotation := maxRotation
	for s := 0; s < n; s++ {
		if len(records[s]) == 0 {
			return a.fail(errors.Wrapf(ErrInfeasibleState,
				"state %d at iteration %d", s, a.numIterations))
		}

		choice := a.choosePivot(records[s])
		pivot[s] = choice.point
		actions[s] = choice.action
		levels[s] = choice.level
		rotation = math.Min(rotation, a.nextRotation(choice.point, records[s]))
	}

	distance, err := a.cut(levels)
	if err != nil {
		return a.fail(err)
	}

	a.pivot = pivot
	a.actions = actions
	a.updateThreats()
	a.numIterations++
	iterationsRun.Add(1)
	a.distance = distance
	a.revolutionDistance = math.Max(a.revolutionDistance, distance)
	a.trajectory = append(a.trajectory, clonePoints(pivot))
	a.record(records, dead)

	glog.V(2).Infof("Iteration %d: angle %.6f, pivot %v, actions %v, distance %.3g",
		a.numIterations, a.angle, pivot, actions, distance)

	if !(rotation > minRotation) {
		return a.fail(errors.Wrapf(ErrNumericalDegenerate,
			"direction stalled at angle %v after %d iterations", a.angle, a.numIterations))
	}

	a.angle = math.Mod(a.angle+rotation, fullTurn)
	a.direction = geom.FromAngle(a.angle)
	a.swept += rotation

	outcome := Outcome{
		Iteration:          a.numIterations,
		Revolution:         a.numRevolutions,
		Distance:           distance,
		RevolutionDistance: a.revolutionDistance,
	}

	if a.swept >= fullTurn-minRotation {
		outcome.RevolutionComplete = true
		a.completeRevolution()
	}

	if a.status == Iterating && a.numIterations >= a.env.MaxIterations {
		a.status = NotConverged
		a.err = errors.Wrapf(ErrNotConverged, "%d iterations, last revolution distance %.3g",
			a.numIterations, outcome.RevolutionDistance)
	}

	outcome.Status = a.status
	outcome.Err = a.err
	a.last = outcome
	return outcome
}

// cut intersects every state's polygon with {x : d·x ≤ levels[s]} and
// returns the largest depth cut. If any polygon would become empty, no
// polygon is changed.
func (a *Approx) cut(levels []float64) (float64, error) {
	below := a.direction.Scale(-1)
	for s, pg := range a.polygons {
		if lowest, _ := pg.Support(below); -lowest > levels[s]+a.tol {
			return 0, errors.Wrapf(ErrInfeasibleState,
				"state %d: approximation vanished at iteration %d", s, a.numIterations)
		}
	}

	distance := 0.0
	for s, pg := range a.polygons {
		distance = math.Max(distance, pg.Cut(a.direction, levels[s], a.tol))
	}

	return distance, nil
}

func (a *Approx) completeRevolution() {
	a.numRevolutions++
	revolutionsRun.Add(1)
	a.revolutionDistances = append(a.revolutionDistances, a.revolutionDistance)
	if a.revolutionDistance <= a.tol {
		a.status = Converged
		return
	}

	a.swept = 0
	a.revolutionDistance = 0
	if a.env.StoreIterations == StoreLastRevolution {
		a.iterations = nil
	}
}

// End stops the approximation. An approximation that is still iterating
// is marked NotConverged.
func (a *Approx) End() {
	if a.status != Iterating {
		return
	}

	a.status = NotConverged
	a.err = errors.Wrapf(ErrNotConverged, "stopped after %d iterations", a.numIterations)
	a.last.Status = a.status
	a.last.Err = a.err
}

func (a *Approx) fail(err error) Outcome {
	a.status = Failed
	a.err = err
	a.last = Outcome{
		Iteration:          a.numIterations,
		Revolution:         a.numRevolutions,
		Distance:           a.distance,
		RevolutionDistance: a.revolutionDistance,
		Status:             Failed,
		Err:                err,
	}

	glog.V(1).Infof("Approximation failed: %v", err)
	return a.last
}

// evaluateActions solves every live action pair of every state against a
// snapshot of the current approximation and returns, per state, the
// records of the pairs that can be supported, in action order, along with
// the pairs that cannot.
func (a *Approx) evaluateActions() ([][]ActionRecord, [][]ActionPair, error) {
	n := a.game.NumStates()
	snapshot := a.Polygons()
	deviations := a.deviationTables()
	unconstrained := a.game.Unconstrained()

	results := make([][]ActionRecord, n)
	supported := make([][]bool, n)
	var g errgroup.Group
	g.SetLimit(a.env.workers())
	for s := 0; s < n; s++ {
		results[s] = make([]ActionRecord, len(a.live[s]))
		supported[s] = make([]bool, len(a.live[s]))
		for k, action := range a.live[s] {
			p := &actionProblem{
				state:         s,
				action:        action,
				flow:          payoffPoint(a.game.Payoffs(s, action)),
				transition:    a.game.Transition(s, action),
				deviations:    &deviations[s],
				unconstrained: unconstrained,
				delta:         a.delta,
				polygons:      snapshot,
				direction:     a.direction,
				tol:           a.tol,
			}

			s, k := s, k
			g.Go(func() error {
				rec, ok, err := solveAction(p)
				if err != nil {
					return err
				}

				results[s][k] = rec
				supported[s][k] = ok
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	records := make([][]ActionRecord, n)
	dead := make([][]ActionPair, n)
	for s := range results {
		actionEvaluations.Add(int64(len(results[s])))
		for k, rec := range results[s] {
			if supported[s][k] {
				records[s] = append(records[s], rec)
			} else {
				dead[s] = append(dead[s], rec.Action)
				deadActions.Add(1)
			}
		}
	}

	return records, dead, nil
}

func (a *Approx) deviationTables() []deviationTable {
	ratio := (1 - a.delta) / a.delta
	tables := make([]deviationTable, a.game.NumStates())
	for s := range tables {
		numActions := a.game.NumActions(s)
		for player := 0; player < 2; player++ {
			table := make([][]float64, numActions[0])
			for a1 := range table {
				table[a1] = make([]float64, numActions[1])
				for a2 := range table[a1] {
					action := ActionPair{a1, a2}
					v := ratio * a.game.Payoffs(s, action)[player]
					for next, prob := range a.game.Transition(s, action) {
						v += prob * a.threats[next][player]
					}
					table[a1][a2] = v
				}
			}

			tables[s][player] = table
		}
	}

	return tables
}

type pivotChoice struct {
	point  geom.Point
	action ActionPair
	level  float64
}

// choosePivot picks the generated payoff that is maximal in the current
// direction. Payoffs within tolerance of the maximum are tied, and the tie
// goes to the one farthest counter-clockwise along the supporting line,
// then to the lowest action pair.
func (a *Approx) choosePivot(records []ActionRecord) pivotChoice {
	level := math.Inf(-1)
	for i := range records {
		level = math.Max(level, records[i].Value)
	}

	tangent := a.direction.Rotate90()
	best := pivotChoice{level: level}
	bestAlong := math.Inf(-1)
	for i := range records {
		for _, p := range records[i].Generated {
			if a.direction.Dot(p) < level-a.tol {
				continue
			}

			if along := tangent.Dot(p); along > bestAlong+a.tol {
				bestAlong = along
				best.point = p
				best.action = records[i].Action
			}
		}
	}

	return best
}

// nextRotation returns the counter-clockwise rotation of the direction at
// which another generated payoff overtakes the pivot, capped at
// maxRotation.
func (a *Approx) nextRotation(pivot geom.Point, records []ActionRecord) float64 {
	tangent := a.direction.Rotate90()
	best := maxRotation
	for i := range records {
		for _, q := range records[i].Generated {
			e := q.Sub(pivot)
			if e.Norm() <= 2*a.tol {
				continue
			}

			below := math.Max(-a.direction.Dot(e), 0)
			theta := math.Atan2(below, tangent.Dot(e))
			best = math.Min(best, theta)
		}
	}

	return best
}

func (a *Approx) updateThreats() {
	for s, pg := range a.polygons {
		a.threats[s] = [2]float64{pg.Min(0), pg.Min(1)}
	}
}

func (a *Approx) record(records [][]ActionRecord, dead [][]ActionPair) {
	if a.env.StoreIterations == StoreNone {
		return
	}

	it := Iteration{
		Iteration:  a.numIterations,
		Revolution: a.numRevolutions,
		Angle:      a.angle,
		Direction:  a.direction,
		Pivot:      clonePoints(a.pivot),
		Actions:    append([]ActionPair(nil), a.actions...),
		Threats:    append([][2]float64(nil), a.threats...),
		Distance:   a.distance,
	}
	if a.env.StoreActions {
		it.Records = records
		it.Dead = dead
	}

	a.iterations = append(a.iterations, it)
}

// Status returns the state of the approximation.
func (a *Approx) Status() Status {
	return a.status
}

// Err returns why the approximation stopped without converging, if it did.
func (a *Approx) Err() error {
	return a.err
}

func (a *Approx) NumIterations() int {
	return a.numIterations
}

func (a *Approx) NumRevolutions() int {
	return a.numRevolutions
}

// Direction returns the direction the next iteration will use.
func (a *Approx) Direction() geom.Point {
	return a.direction
}

// Distance returns the distance of the last iteration.
func (a *Approx) Distance() float64 {
	return a.distance
}

// RevolutionDistances returns the largest distance of each completed
// revolution.
func (a *Approx) RevolutionDistances() []float64 {
	return a.revolutionDistances
}

// Pivot returns the current pivot payoff of every state.
func (a *Approx) Pivot() []geom.Point {
	return clonePoints(a.pivot)
}

// Threats returns each state's current punishment payoffs.
func (a *Approx) Threats() [][2]float64 {
	return append([][2]float64(nil), a.threats...)
}

// Polygon returns the vertices of the state's payoff set in
// counter-clockwise order.
func (a *Approx) Polygon(state int) []geom.Point {
	return a.polygons[state].Vertices()
}

// Polygons returns the vertices of every state's payoff set.
func (a *Approx) Polygons() [][]geom.Point {
	result := make([][]geom.Point, len(a.polygons))
	for s, pg := range a.polygons {
		result[s] = pg.Vertices()
	}

	return result
}

// Trajectory returns the pivot at initialization and after every
// iteration.
func (a *Approx) Trajectory() [][]geom.Point {
	return a.trajectory
}

// Iterations returns the stored iteration records.
func (a *Approx) Iterations() []Iteration {
	return a.iterations
}

// Game returns the snapshot of the game being solved.
func (a *Approx) Game() *TabulatedGame {
	return a.game
}

func payoffPoint(u [2]float64) geom.Point {
	return geom.Point{X: u[0], Y: u[1]}
}

func clonePoints(points []geom.Point) []geom.Point {
	return append([]geom.Point(nil), points...)
}
