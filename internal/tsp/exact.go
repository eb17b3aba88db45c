package tsp

import (
	"context"
	"fmt"
	"math"
)

const (
	// DefaultExactMaxPoints is the largest instance solved by Held-Karp
	// dynamic programming instead of branch and bound.
	DefaultExactMaxPoints = 15

	// maxExactPoints caps the DP table at 2^(n-1)*(n-1) entries.
	maxExactPoints = 18

	// ctxCheckMask sets how many subsets are processed between context checks.
	ctxCheckMask = 1<<10 - 1
)

// heldKarp solves the instance exactly in O(n^2 * 2^n) time.
//
// Node 0 is the fixed start, so subsets range over nodes 1..n-1 only.
// dp[mask*m+j] is the cheapest path leaving 0, visiting exactly the nodes in
// mask and ending at node j+1. Ties keep the lower predecessor index.
func heldKarp(ctx context.Context, dist [][]float64) ([]int, float64, int, error) {
	n := len(dist)
	m := n - 1
	full := 1<<m - 1

	dp := make([]float64, (full+1)*m)
	parent := make([]int8, (full+1)*m)
	for i := range dp {
		dp[i] = math.Inf(1)
		parent[i] = -1
	}
	for j := 0; j < m; j++ {
		dp[(1<<j)*m+j] = dist[0][j+1]
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrNoOptimalTour, err)
	}

	states := 0
	for mask := 1; mask <= full; mask++ {
		if mask&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, states, fmt.Errorf("%w: %w", ErrNoOptimalTour, err)
			}
		}
		for j := 0; j < m; j++ {
			bit := 1 << j
			if mask&bit == 0 || mask == bit {
				continue
			}
			prev := mask ^ bit
			best, arg := math.Inf(1), -1
			for k := 0; k < m; k++ {
				if prev&(1<<k) == 0 {
					continue
				}
				if c := dp[prev*m+k] + dist[k+1][j+1]; c < best {
					best, arg = c, k
				}
			}
			dp[mask*m+j] = best
			parent[mask*m+j] = int8(arg)
			states++
		}
	}

	cost, last := math.Inf(1), -1
	for j := 0; j < m; j++ {
		if c := dp[full*m+j] + dist[j+1][0]; c < cost {
			cost, last = c, j
		}
	}

	order := make([]int, n)
	mask := full
	for i := n - 1; i >= 1; i-- {
		order[i] = last + 1
		p := int(parent[mask*m+last])
		mask ^= 1 << last
		last = p
	}
	return order, cost, states, nil
}
