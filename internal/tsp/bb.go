package tsp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Arc states during branching.
const (
	free int8 = iota
	fixedOne
	fixedZero
)

// branchAndBound holds one solve. Arc (i,j) lives at index i*n+j.
type branchAndBound struct {
	dist [][]float64
	n    int
	opts Options

	nodes    int
	lpSolves int
	// inexact is set when a relaxation failed for a reason other than
	// infeasibility; the search can then no longer prove optimality.
	inexact bool
}

type relaxation struct {
	bound float64
	x     []float64
}

// row is one constraint sum(val[k]*y[idx[k]]) <= rhs.
type row struct {
	idx []int
	val []float64
	rhs float64
}

func newBranchAndBound(dist [][]float64, opts Options) *branchAndBound {
	return &branchAndBound{dist: dist, n: len(dist), opts: opts}
}

func (b *branchAndBound) arc(i, j int) int { return i*b.n + j }

// run explores the tree depth first, fixing the most fractional arc to 1
// before trying 0. The incumbent is replaced only on strict improvement and
// is returned even when the search stops early.
func (b *branchAndBound) run(ctx context.Context, incumbent []int, incCost float64) ([]int, float64, error) {
	root := make([]int8, b.n*b.n)
	for i := 0; i < b.n; i++ {
		root[b.arc(i, i)] = fixedZero
	}

	stack := [][]int8{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return incumbent, incCost, fmt.Errorf("%w: %w", ErrNoOptimalTour, err)
		}
		if b.nodes >= b.opts.MaxNodes {
			return incumbent, incCost, fmt.Errorf("%w: node budget %d exhausted", ErrNoOptimalTour, b.opts.MaxNodes)
		}

		fix := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.nodes++

		rel, ok := b.relax(fix)
		if !ok {
			continue
		}
		if rel.bound >= incCost-costEps*math.Max(1, incCost) {
			continue
		}

		branch := b.mostFractional(fix, rel.x)
		if branch < 0 {
			tour, ok := b.reconstruct(rel.x)
			if !ok {
				b.inexact = true
				continue
			}
			if c := TourCost(b.dist, tour); c < incCost-costEps*math.Max(1, incCost) {
				incumbent, incCost = tour, c
			}
			continue
		}

		zeroChild := append([]int8(nil), fix...)
		zeroChild[branch] = fixedZero
		stack = append(stack, zeroChild)

		oneChild := append([]int8(nil), fix...)
		if b.fixOne(oneChild, branch) {
			stack = append(stack, oneChild)
		}
	}

	if b.inexact {
		return incumbent, incCost, fmt.Errorf("%w: relaxation failed numerically", ErrNoOptimalTour)
	}
	return incumbent, incCost, nil
}

// fixOne sets arc a to 1 and forbids every arc that would conflict with it.
// It reports false when the assignment contradicts an earlier fixing.
func (b *branchAndBound) fixOne(fix []int8, a int) bool {
	i, j := a/b.n, a%b.n
	fix[a] = fixedOne

	forbid := func(x int) bool {
		if x == a {
			return true
		}
		if fix[x] == fixedOne {
			return false
		}
		fix[x] = fixedZero
		return true
	}

	for k := 0; k < b.n; k++ {
		if !forbid(b.arc(i, k)) || !forbid(b.arc(k, j)) {
			return false
		}
	}
	return forbid(b.arc(j, i))
}

// mostFractional returns the free arc whose LP value is closest to 0.5,
// or -1 when the solution is integral.
func (b *branchAndBound) mostFractional(fix []int8, x []float64) int {
	best, bestFrac := -1, intTol
	for a, f := range fix {
		if f != free {
			continue
		}
		frac := math.Min(x[a], 1-x[a])
		if frac > bestFrac {
			best, bestFrac = a, frac
		}
	}
	return best
}

// reconstruct follows selected arcs from node 0. It fails when an integral
// solution does not describe a single Hamiltonian cycle.
func (b *branchAndBound) reconstruct(x []float64) ([]int, bool) {
	visited := make([]bool, b.n)
	tour := make([]int, 0, b.n)

	cur := 0
	visited[0] = true
	tour = append(tour, 0)
	for len(tour) < b.n {
		next := -1
		for k := 0; k < b.n; k++ {
			if !visited[k] && x[b.arc(cur, k)] > 0.5 {
				next = k
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		visited[next] = true
		tour = append(tour, next)
		cur = next
	}

	if x[b.arc(cur, 0)] <= 0.5 {
		return nil, false
	}
	return tour, true
}

// relax builds and solves the LP relaxation of the MTZ model under fix.
//
// Columns are the free arcs, then v_i = u_i - 1 for i = 1..n-1, then one
// slack per row. Degree equalities enter as a <= and a >= row.
func (b *branchAndBound) relax(fix []int8) (relaxation, bool) {
	n := b.n

	col := make([]int, n*n)
	freeArcs := make([]int, 0, n*n)
	fixedCost := 0.0
	for a, f := range fix {
		col[a] = -1
		switch f {
		case free:
			col[a] = len(freeArcs)
			freeArcs = append(freeArcs, a)
		case fixedOne:
			fixedCost += b.dist[a/n][a%n]
		}
	}
	vcol := func(i int) int { return len(freeArcs) + i - 1 }
	numVars := len(freeArcs) + n - 1

	rows := make([]row, 0, 4*n+n*n)

	for i := 0; i < n; i++ {
		for _, outgoing := range []bool{true, false} {
			var r row
			ones := 0
			for k := 0; k < n; k++ {
				if k == i {
					continue
				}
				a := b.arc(k, i)
				if outgoing {
					a = b.arc(i, k)
				}
				switch fix[a] {
				case fixedOne:
					ones++
				case free:
					r.idx = append(r.idx, col[a])
					r.val = append(r.val, 1)
				}
			}

			if ones > 1 {
				return relaxation{}, false
			}
			if len(r.idx) == 0 {
				if ones != 1 {
					return relaxation{}, false
				}
				continue
			}

			r.rhs = float64(1 - ones)
			neg := row{idx: r.idx, val: make([]float64, len(r.val)), rhs: -r.rhs}
			for k := range r.val {
				neg.val[k] = -r.val[k]
			}
			rows = append(rows, r, neg)
		}
	}

	// MTZ: u_i - u_j + n*x_ij <= n-1 for i, j >= 1.
	for i := 1; i < n; i++ {
		for j := 1; j < n; j++ {
			if i == j {
				continue
			}
			a := b.arc(i, j)
			switch fix[a] {
			case fixedZero:
				// implied by the bounds on v
			case fixedOne:
				rows = append(rows, row{idx: []int{vcol(i), vcol(j)}, val: []float64{1, -1}, rhs: -1})
			default:
				rows = append(rows, row{
					idx: []int{vcol(i), vcol(j), col[a]},
					val: []float64{1, -1, float64(n)},
					rhs: float64(n - 1),
				})
			}
		}
	}

	// Two-cycle cuts tighten the relaxation.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if fix[b.arc(i, j)] == free && fix[b.arc(j, i)] == free {
				rows = append(rows, row{
					idx: []int{col[b.arc(i, j)], col[b.arc(j, i)]},
					val: []float64{1, 1},
					rhs: 1,
				})
			}
		}
	}

	for i := 1; i < n; i++ {
		rows = append(rows, row{idx: []int{vcol(i)}, val: []float64{1}, rhs: float64(n - 1)})
	}

	m := len(rows)
	A := mat.NewDense(m, numVars+m, nil)
	rhs := make([]float64, m)
	for r, c := range rows {
		for k, idx := range c.idx {
			A.Set(r, idx, A.At(r, idx)+c.val[k])
		}
		A.Set(r, numVars+r, 1)
		rhs[r] = c.rhs
	}

	cost := make([]float64, numVars+m)
	for k, a := range freeArcs {
		cost[k] = b.dist[a/n][a%n]
	}

	opt, y, err := lp.Simplex(cost, A, rhs, b.opts.Tolerance, nil)
	b.lpSolves++
	if err != nil {
		if !errors.Is(err, lp.ErrInfeasible) {
			b.inexact = true
		}
		return relaxation{}, false
	}

	x := make([]float64, n*n)
	for a, f := range fix {
		if f == fixedOne {
			x[a] = 1
		}
	}
	for k, a := range freeArcs {
		x[a] = y[k]
	}
	return relaxation{bound: opt + fixedCost, x: x}, true
}
