package tsp

// Heuristic returns the nearest-neighbour tour from node 0 improved by 2-opt.
// It seeds the exact search and is never worse than its own starting tour.
func Heuristic(dist [][]float64) []int {
	if len(dist) <= 2 {
		order := make([]int, len(dist))
		for i := range order {
			order[i] = i
		}
		return order
	}
	return twoOpt(dist, nearestNeighbor(dist))
}

// nearestNeighbor builds a tour from node 0, always moving to the closest
// unvisited node. Ties go to the lower index.
func nearestNeighbor(dist [][]float64) []int {
	n := len(dist)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	cur := 0
	visited[0] = true
	order = append(order, 0)
	for len(order) < n {
		next := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if next == -1 || dist[cur][j] < dist[cur][next] {
				next = j
			}
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
	return order
}

// twoOpt improves a closed tour by segment reversal until no move helps.
// Costs are recomputed per candidate so asymmetric matrices stay correct.
func twoOpt(dist [][]float64, order []int) []int {
	best := append([]int(nil), order...)
	bestCost := TourCost(dist, best)
	n := len(best)

	for {
		improved := false
		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := twoOptSwap(best, i, k)
				if c := TourCost(dist, cand); c < bestCost-costEps {
					best, bestCost = cand, c
					improved = true
				}
			}
		}
		if !improved {
			return best
		}
	}
}

func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}
