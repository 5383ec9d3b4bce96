package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
)

const (
	// defaultMaxIterations is the planner budget before giving up
	defaultMaxIterations = 10000

	// defaultGoalBiasEvery makes every Nth sample the goal itself
	defaultGoalBiasEvery = 5

	// defaultStepFraction sizes the steering step relative to the
	// canvas extent, so the planner stays scale-independent
	defaultStepFraction = 0.1

	// defaultGoalToleranceFactor sizes the goal-reached distance
	// relative to one grid cell
	defaultGoalToleranceFactor = 0.6
)

var (
	// ErrStartBlocked is returned when the start point is outside the
	// domain or inside an obstacle cell
	ErrStartBlocked = errors.New("start point is not in free space")

	// ErrGoalBlocked is returned when the goal point is outside the
	// domain or inside an obstacle cell
	ErrGoalBlocked = errors.New("goal point is not in free space")
)

// PlanConfig holds the planner's tuning constants. Zero fields are
// filled with defaults derived from the workspace extent.
type PlanConfig struct {
	StepSize      float64 `json:"stepSize,omitempty"`
	GoalTolerance float64 `json:"goalTolerance,omitempty"`
	MaxIterations int     `json:"maxIterations,omitempty"`
	GoalBiasEvery int     `json:"goalBiasEvery,omitempty"`
}

// withDefaults fills unset fields from the workspace scale
func (c PlanConfig) withDefaults(ws *Workspace) PlanConfig {
	if c.StepSize <= 0 {
		c.StepSize = ws.CanvasSize * defaultStepFraction
	}
	if c.GoalTolerance <= 0 {
		c.GoalTolerance = ws.CellSize * defaultGoalToleranceFactor
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultMaxIterations
	}
	if c.GoalBiasEvery <= 0 {
		c.GoalBiasEvery = defaultGoalBiasEvery
	}
	return c
}

// PlanObserver receives tree growth events while a run is in
// progress. Calls happen from inside the planning loop, so an
// observer must not touch the tree concurrently.
type PlanObserver interface {
	NodeAdded(index, parent int, at Point)
	NodeRewired(index, newParent int)
}

// PlanResult is the outcome of one planning run. Found distinguishes
// a real path from budget exhaustion; the partial tree is valid and
// inspectable either way.
type PlanResult struct {
	Tree       *Tree
	GoalIndex  int
	Found      bool
	Iterations int
}

// Planner runs RRT* over a fixed workspace. A planner is
// single-threaded: one run at a time, no shared state across runs.
type Planner struct {
	ws       *Workspace
	cfg      PlanConfig
	rng      *rand.Rand
	Observer PlanObserver
}

// NewPlanner creates a planner with the given config and random seed.
// The seed makes runs reproducible; production callers pass a
// time-derived seed.
func NewPlanner(ws *Workspace, cfg PlanConfig, seed int64) *Planner {
	return &Planner{
		ws:  ws,
		cfg: cfg.withDefaults(ws),
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Config returns the effective configuration after defaulting
func (pl *Planner) Config() PlanConfig {
	return pl.cfg
}

// neighborhoodRadius is the standard RRT* schedule, shrinking as the
// tree grows. For the first couple of nodes the formula degenerates
// toward zero, so clamp it up to the step size there.
func (pl *Planner) neighborhoodRadius(n int) float64 {
	if n <= 1 {
		return pl.cfg.StepSize
	}
	return pl.cfg.StepSize * math.Sqrt(math.Log(float64(n+1))/float64(n+1))
}

// Plan grows a tree from start until a node lands within the goal
// tolerance or the iteration budget runs out. Context cancellation is
// treated the same as budget exhaustion.
func (pl *Planner) Plan(ctx context.Context, start, goal Point) (*PlanResult, error) {
	if !pl.ws.IsFree(start) {
		return nil, fmt.Errorf("%w: (%.1f, %.1f)", ErrStartBlocked, start.X, start.Y)
	}
	if !pl.ws.IsFree(goal) {
		return nil, fmt.Errorf("%w: (%.1f, %.1f)", ErrGoalBlocked, goal.X, goal.Y)
	}

	tree := NewTree(start)
	result := &PlanResult{Tree: tree, GoalIndex: -1}

	for i := 0; i < pl.cfg.MaxIterations; i++ {
		result.Iterations = i + 1

		if ctx.Err() != nil {
			log.Printf("⚠️  Planning cancelled after %d iterations\n", i)
			break
		}

		// Sample a random point, goal-biased every Nth iteration
		var sample Point
		if i%pl.cfg.GoalBiasEvery == 0 {
			sample = goal
		} else {
			sample = pl.ws.ClampToBounds(Point{
				X: pl.rng.Float64() * pl.ws.CanvasSize,
				Y: pl.rng.Float64() * pl.ws.CanvasSize,
			})
		}
		if !pl.ws.InDomain(sample) || !pl.ws.IsFree(sample) {
			continue
		}

		// Steer from the nearest node toward the sample
		nearest := tree.Nearest(sample)
		nearPt := tree.At(nearest).Point
		newPt, ok := nearPt.StepToward(sample, pl.cfg.StepSize)
		if !ok {
			continue
		}
		newPt = pl.ws.ClampToBounds(newPt)

		if !pl.ws.InDomain(newPt) || !pl.ws.SegmentFree(nearPt, newPt) {
			continue
		}

		// Choose best parent based on cost within the neighborhood
		radius := pl.neighborhoodRadius(tree.Len())
		bestParent := nearest
		bestCost := tree.At(nearest).Cost + nearPt.Distance(newPt)

		for _, j := range tree.NeighborsWithin(newPt, radius) {
			neighbor := tree.At(j)
			if !pl.ws.SegmentFree(neighbor.Point, newPt) {
				continue
			}
			if cost := neighbor.Cost + neighbor.Point.Distance(newPt); cost < bestCost {
				bestCost = cost
				bestParent = j
			}
		}

		newIdx := tree.Append(newPt, bestParent, bestCost)
		if pl.Observer != nil {
			pl.Observer.NodeAdded(newIdx, bestParent, newPt)
		}

		// Rewire nearby nodes through the new one where that is
		// strictly cheaper
		for _, j := range tree.NeighborsWithin(newPt, radius) {
			if j == newIdx {
				continue
			}
			neighbor := tree.At(j)
			if !pl.ws.SegmentFree(newPt, neighbor.Point) {
				continue
			}
			if cost := bestCost + newPt.Distance(neighbor.Point); cost < neighbor.Cost {
				if err := tree.RewireParent(j, newIdx, cost); err != nil {
					continue
				}
				if pl.Observer != nil {
					pl.Observer.NodeRewired(j, newIdx)
				}
			}
		}

		if newPt.Distance(goal) < pl.cfg.GoalTolerance {
			result.GoalIndex = newIdx
			result.Found = true
			return result, nil
		}
	}

	return result, nil
}
