// Package tsp orders small point sets into minimum-length closed tours.
//
// Instances of up to Options.ExactMaxPoints nodes are solved by Held-Karp
// dynamic programming. Larger ones are formulated as a 0/1 integer program
// with Miller–Tucker–Zemlin subtour elimination and solved by LP-based
// branch and bound, every relaxation going through gonum's simplex.
//
// Node 0 is the fixed tour start. A returned order is a permutation of
// 0..n-1 starting at 0; the closing edge back to 0 is implied.
package tsp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyMatrix       = errors.New("tsp: empty distance matrix")
	ErrDimensionMismatch = errors.New("tsp: distance matrix is not square or has non-finite entries")
	ErrNegativeWeight    = errors.New("tsp: negative distance")

	// ErrNoOptimalTour means the search ended without proving optimality:
	// the node budget ran out, the context was cancelled, or an LP
	// relaxation failed numerically. The order returned with it is the
	// best complete tour found so far.
	ErrNoOptimalTour = errors.New("tsp: no optimal tour found")
)

const (
	// DefaultMaxNodes bounds the branch-and-bound tree per solve.
	DefaultMaxNodes = 20000

	defaultTolerance = 1e-10
	intTol           = 1e-6
	costEps          = 1e-9
)

// Options tune the exact solver.
type Options struct {
	// MaxNodes caps explored branch-and-bound nodes. Zero means DefaultMaxNodes.
	MaxNodes int
	// Tolerance is passed to the simplex. Zero means 1e-10.
	Tolerance float64
	// ExactMaxPoints is the largest n solved by Held-Karp. Zero means
	// DefaultExactMaxPoints; negative sends every instance to branch and bound.
	ExactMaxPoints int
}

func DefaultOptions() Options {
	return Options{MaxNodes: DefaultMaxNodes, Tolerance: defaultTolerance, ExactMaxPoints: DefaultExactMaxPoints}
}

// Stats describes the last solve.
type Stats struct {
	Nodes    int
	LPSolves int
	// States counts filled Held-Karp table entries.
	States int
	Cost   float64
}

// Solver is safe for concurrent use; it keeps no state between calls.
type Solver struct {
	opts Options
}

func NewSolver(opts Options) *Solver {
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultTolerance
	}
	if opts.ExactMaxPoints == 0 {
		opts.ExactMaxPoints = DefaultExactMaxPoints
	}
	if opts.ExactMaxPoints > maxExactPoints {
		opts.ExactMaxPoints = maxExactPoints
	}
	return &Solver{opts: opts}
}

// Solve is NewSolver(DefaultOptions()).Solve.
func Solve(ctx context.Context, dist [][]float64) ([]int, error) {
	order, _, err := NewSolver(DefaultOptions()).SolveWithStats(ctx, dist)
	return order, err
}

// Solve returns a minimum-cost visiting order over dist.
//
// For n <= 2 the identity order is returned without optimization. Among
// optimal tours the identity order is preferred, so solving an already
// optimal order returns it unchanged. When optimality cannot be proven the
// error wraps ErrNoOptimalTour and the order is the best tour found.
func (s *Solver) Solve(ctx context.Context, dist [][]float64) ([]int, error) {
	order, _, err := s.SolveWithStats(ctx, dist)
	return order, err
}

// SolveWithStats is Solve plus search statistics.
func (s *Solver) SolveWithStats(ctx context.Context, dist [][]float64) ([]int, Stats, error) {
	n, err := validate(dist)
	if err != nil {
		return nil, Stats{}, err
	}

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	if n <= 2 {
		return identity, Stats{Cost: TourCost(dist, identity)}, nil
	}

	best := identity
	bestCost := TourCost(dist, identity)
	if h := Heuristic(dist); TourCost(dist, h) < bestCost-costEps {
		best, bestCost = h, TourCost(dist, h)
	}

	if n <= s.opts.ExactMaxPoints {
		order, cost, states, err := heldKarp(ctx, dist)
		if err != nil {
			return best, Stats{States: states, Cost: bestCost}, err
		}
		if cost < bestCost-costEps*math.Max(1, bestCost) {
			best, bestCost = order, cost
		}
		return best, Stats{States: states, Cost: bestCost}, nil
	}
	return s.branchAndBound(ctx, dist, best, bestCost)
}

type bbResult struct {
	order []int
	stats Stats
	err   error
}

// branchAndBound runs the LP search in its own goroutine so a deadline is
// honoured even while a simplex solve is in progress. The goroutine stops at
// its next context check.
func (s *Solver) branchAndBound(ctx context.Context, dist [][]float64, incumbent []int, incCost float64) ([]int, Stats, error) {
	done := make(chan bbResult, 1)
	go func() {
		bb := newBranchAndBound(dist, s.opts)
		order, cost, err := bb.run(ctx, incumbent, incCost)
		done <- bbResult{order: order, stats: Stats{Nodes: bb.nodes, LPSolves: bb.lpSolves, Cost: cost}, err: err}
	}()

	select {
	case r := <-done:
		return r.order, r.stats, r.err
	case <-ctx.Done():
		return incumbent, Stats{Cost: incCost}, fmt.Errorf("%w: %w", ErrNoOptimalTour, ctx.Err())
	}
}

// TourCost returns the closed-tour cost of visiting order and returning to order[0].
func TourCost(dist [][]float64, order []int) float64 {
	if len(order) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		total += dist[order[i]][order[i+1]]
	}
	return total + dist[order[len(order)-1]][order[0]]
}

func validate(dist [][]float64) (int, error) {
	n := len(dist)
	if n == 0 {
		return 0, ErrEmptyMatrix
	}
	for i, row := range dist {
		if len(row) != n {
			return 0, ErrDimensionMismatch
		}
		for j, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return 0, ErrDimensionMismatch
			}
			if i != j && w < 0 {
				return 0, ErrNegativeWeight
			}
		}
	}
	return n, nil
}
