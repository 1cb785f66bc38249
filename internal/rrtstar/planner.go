// Package rrtstar implements the asymptotically optimal RRT* planner over a
// 2-D obstacle field.
//
// A Planner owns its tree and is not safe for concurrent use. Drive it with
// Step for incremental, externally paced planning, or with Run to plan to
// completion. Observers read the tree through Snapshot.
//
// Rewiring a node does not update the costs of its descendants unless
// Config.PropagateCosts is set; their stored costs then overestimate the true
// path length until they are rewired themselves.
package rrtstar

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"rrtstar-planner/internal/geometry"
	"rrtstar-planner/internal/obstacle"
	"rrtstar-planner/internal/tree"
)

// ErrNoPath is returned when the iteration budget runs out before the goal
// was ever connected
var ErrNoPath = errors.New("no path found")

// Planner grows one RRT* tree from start toward goal
type Planner struct {
	cfg   Config
	start geometry.Point
	goal  geometry.Point
	field obstacle.Field
	store *tree.Store

	rng     *rand.Rand
	logger  *zap.SugaredLogger
	metrics *Metrics

	gamma      float64
	lowerBound float64

	iteration     int
	found         bool
	bestGoal      tree.NodeID
	bestCost      float64
	firstSolution int
	solutionNodes int
}

// Option customizes a Planner
type Option func(*Planner)

// WithLogger sets the logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics reports to m
func WithMetrics(m *Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithRand replaces the random source seeded from Config.Seed
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// Result describes a finished run
type Result struct {
	Path          []geometry.Point `json:"path"`
	Cost          float64          `json:"cost"`
	Iterations    int              `json:"iterations"`
	Nodes         int              `json:"nodes"`
	FirstSolution int              `json:"firstSolution"`
}

// New creates a planner. A nil field is free space. Start and goal are not
// checked against the field; a blocked endpoint simply never connects.
func New(cfg Config, start, goal geometry.Point, field obstacle.Field, opts ...Option) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if field == nil {
		field = obstacle.Free
	}

	//nolint:gosec
	rng := rand.New(rand.NewSource(cfg.Seed))
	p := &Planner{
		cfg:        cfg,
		start:      start,
		goal:       goal,
		field:      field,
		store:      tree.NewStore(start),
		rng:        rng,
		logger:     zap.NewNop().Sugar(),
		gamma:      2.0 * math.Sqrt(cfg.Bounds.Area()/math.Pi),
		lowerBound: start.Distance(goal),
		bestGoal:   tree.NoParent,
		bestCost:   math.Inf(1),
	}
	for _, opt := range opts {
		opt(p)
	}

	// the start itself may already see the goal
	p.connectGoal(p.store.Root())
	return p, nil
}

// Start returns the root position
func (p *Planner) Start() geometry.Point { return p.start }

// Goal returns the goal position
func (p *Planner) Goal() geometry.Point { return p.goal }

// Config returns the planner configuration
func (p *Planner) Config() Config { return p.cfg }

// Iteration returns the number of iterations executed
func (p *Planner) Iteration() int { return p.iteration }

// Found reports whether the goal has been connected
func (p *Planner) Found() bool { return p.found }

// BestCost returns the cost of the best goal connection, +Inf before the
// first one
func (p *Planner) BestCost() float64 { return p.bestCost }

// FirstSolution returns the iteration of the first goal connection and
// whether there is one
func (p *Planner) FirstSolution() (int, bool) { return p.firstSolution, p.found }

// Len returns the number of nodes in the tree
func (p *Planner) Len() int { return p.store.Len() }

// Path returns the best path start→goal, or nil before the first solution
func (p *Planner) Path() []geometry.Point {
	if !p.found {
		return nil
	}
	return p.store.Path(p.bestGoal)
}

// Done reports whether planning has stopped: the iteration budget is spent,
// the post-solution refinement budget is spent, or the best path already
// equals the straight-line distance.
func (p *Planner) Done() bool {
	if p.found {
		if p.bestCost <= p.lowerBound+costEpsilon*math.Max(1, p.lowerBound) {
			return true
		}
		if p.store.Len()-p.solutionNodes > p.cfg.RefinementBudget {
			return true
		}
	}
	return p.iteration >= p.cfg.MaxIterations
}

const costEpsilon = 1e-9

// Step runs one iteration and reports whether the planner can continue
func (p *Planner) Step() bool {
	if p.Done() {
		return false
	}
	p.iteration++
	p.metrics.iteration()

	sample := p.sample()
	nearestID, _ := p.store.Nearest(sample)
	nearest, _ := p.store.Node(nearestID)

	candidate := nearest.Pos.Steer(sample, p.cfg.StepSize)
	if candidate == nearest.Pos {
		p.metrics.rejected("duplicate")
		return !p.Done()
	}
	if obstacle.IsBlocked(p.field, nearest.Pos, candidate) {
		p.metrics.rejected("blocked")
		return !p.Done()
	}

	near := p.store.WithinRadius(candidate, p.neighborRadius())
	parent, cost := p.chooseParent(candidate, near, nearestID)
	id := p.store.Insert(tree.Node{Pos: candidate, Parent: parent, Cost: cost})
	p.metrics.nodeAdded()

	if p.store.Len() < p.cfg.RewireThreshold || p.iteration%p.cfg.RewireStride == 0 {
		p.rewire(id, near)
	}

	p.connectGoal(id)
	return !p.Done()
}

// Run steps until Done. The context is checked before every iteration.
func (p *Planner) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	defer func() { p.metrics.observeRun(time.Since(started)) }()

	for !p.Done() {
		if err := ctx.Err(); err != nil {
			return p.result(), err
		}
		p.Step()

		if p.cfg.LogInterval > 0 && p.iteration%p.cfg.LogInterval == 0 {
			p.logger.Debugw("rrt* progress",
				"iteration", p.iteration,
				"nodes", p.store.Len(),
				"best_cost", p.bestCost,
			)
		}
	}

	if !p.found {
		p.logger.Infow("no path found", "iterations", p.iteration, "nodes", p.store.Len())
		return p.result(), ErrNoPath
	}

	res := p.result()
	p.logger.Infow("path found",
		"iterations", p.iteration,
		"nodes", res.Nodes,
		"waypoints", len(res.Path),
		"cost", res.Cost,
		"elapsed", time.Since(started),
	)
	return res, nil
}

func (p *Planner) result() Result {
	res := Result{
		Iterations: p.iteration,
		Nodes:      p.store.Len(),
	}
	if p.found {
		res.Path = p.Path()
		res.Cost = p.bestCost
		res.FirstSolution = p.firstSolution
	}
	return res
}

func (p *Planner) sample() geometry.Point {
	if p.rng.Float64() < p.cfg.GoalSampleRate {
		return p.goal
	}
	return p.cfg.Bounds.Sample(p.rng)
}

// neighborRadius shrinks with the tree size as gamma*sqrt(ln n / n), clamped
// to [floor, cap]
func (p *Planner) neighborRadius() float64 {
	return radiusFor(p.store.Len(), p.gamma, p.cfg.RadiusCap, p.cfg.radiusFloor())
}

func radiusFor(n int, gamma, radiusCap, floor float64) float64 {
	nf := math.Max(1, float64(n))
	r := math.Min(gamma*math.Sqrt(math.Log(nf)/nf), radiusCap)
	return math.Max(r, floor)
}

// chooseParent picks the near node giving pos the lowest cost over a free
// edge, falling back to the node pos was steered from
func (p *Planner) chooseParent(pos geometry.Point, near []tree.NodeID, nearest tree.NodeID) (tree.NodeID, float64) {
	best := tree.NoParent
	bestCost := math.Inf(1)

	for _, id := range near {
		n, _ := p.store.Node(id)
		cost := n.Cost + n.Pos.Distance(pos)
		if cost >= bestCost {
			continue
		}
		if obstacle.IsBlocked(p.field, n.Pos, pos) {
			continue
		}
		best, bestCost = id, cost
	}

	if best == tree.NoParent {
		n, _ := p.store.Node(nearest)
		return nearest, n.Cost + n.Pos.Distance(pos)
	}
	return best, bestCost
}

// rewire re-parents near nodes through id when that is cheaper
func (p *Planner) rewire(id tree.NodeID, near []tree.NodeID) {
	node, _ := p.store.Node(id)

	for _, nid := range near {
		if nid == p.store.Root() || nid == node.Parent {
			continue
		}
		n, _ := p.store.Node(nid)
		cost := node.Cost + node.Pos.Distance(n.Pos)
		if cost >= n.Cost {
			continue
		}
		if obstacle.IsBlocked(p.field, node.Pos, n.Pos) {
			continue
		}
		if err := p.store.Reparent(nid, id, cost); err != nil {
			p.logger.Warnw("rewire failed", "node", nid, "parent", id, "error", err)
			continue
		}
		p.metrics.rewired()

		if p.cfg.PropagateCosts {
			p.store.PropagateCosts(nid)
			p.refreshBestCost()
		}
	}
}

// refreshBestCost picks up a goal cost lowered by propagation
func (p *Planner) refreshBestCost() {
	if !p.found {
		return
	}
	if g, ok := p.store.Node(p.bestGoal); ok && g.Cost < p.bestCost {
		p.bestCost = g.Cost
	}
}

// connectGoal tries the straight edge id→goal and keeps it if it beats the
// best connection so far
func (p *Planner) connectGoal(id tree.NodeID) {
	n, _ := p.store.Node(id)
	dist := n.Pos.Distance(p.goal)
	if dist > p.cfg.FinalStep {
		return
	}
	total := n.Cost + dist
	if p.found && total >= p.bestCost {
		return
	}
	if obstacle.IsBlocked(p.field, n.Pos, p.goal) {
		return
	}

	if p.found {
		if err := p.store.Remove(p.bestGoal); err != nil {
			p.logger.Warnw("failed to drop superseded goal node", "node", p.bestGoal, "error", err)
		}
		p.logger.Debugw("better path found", "iteration", p.iteration, "from", p.bestCost, "to", total)
		p.metrics.solution("improved")
	}

	p.bestGoal = p.store.Insert(tree.Node{Pos: p.goal, Parent: id, Cost: total, Terminal: true})
	p.bestCost = total

	if !p.found {
		p.found = true
		p.firstSolution = p.iteration
		p.solutionNodes = p.store.Len()
		p.logger.Infow("first solution found", "iteration", p.iteration, "cost", total)
		p.metrics.solution("first")
	}
}
