package services

import (
	"math"
	"sort"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/geo"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
)

const (
	DefaultBalancePasses = 5

	receiverRatio = 0.9
	donorRatio    = 1.1
	maxTransfer   = 1

	anyDiscount = 0.5
	tagDiscount = 0.8
)

// Move transfers one sight between weather groups.
type Move struct {
	Sight domain.Sight
	From  domain.Weather
	To    domain.Weather
}

// Balancer nudges group sizes toward demand-proportional targets by
// stealing sights from oversized groups.
type Balancer struct {
	MaxPasses int
}

func NewBalancer() *Balancer {
	return &Balancer{MaxPasses: DefaultBalancePasses}
}

// Targets returns target[cat] = total/slots * demand[cat] for every
// forecast category.
func Targets(total int, demand domain.SlotDemand) map[domain.Weather]float64 {
	out := make(map[domain.Weather]float64, len(demand.Categories))
	slots := demand.Total()
	if slots == 0 {
		return out
	}
	perSlot := float64(total) / float64(slots)
	for _, w := range demand.Categories {
		out[w] = perSlot * float64(demand.Count(w))
	}
	return out
}

// Balance runs up to MaxPasses passes and returns the rebalanced groups
// together with every move applied. groups is not modified.
//
// Each pass plans its moves against a snapshot of the previous state; the
// moves are applied together once the pass is planned. Balancing stops
// early after a pass that moves nothing.
func (b *Balancer) Balance(groups *domain.Groups, demand domain.SlotDemand, center domain.Coordinates) (*domain.Groups, []Move) {
	passes := b.MaxPasses
	if passes <= 0 {
		passes = DefaultBalancePasses
	}

	current := groups.Clone()
	targets := Targets(current.Total(), demand)
	if len(targets) == 0 || current.Total() == 0 {
		return current, nil
	}

	var all []Move
	for pass := 0; pass < passes; pass++ {
		moves := planPass(current, demand.Categories, targets, center)
		if len(moves) == 0 {
			break
		}
		current = ApplyMoves(current, moves)
		all = append(all, moves...)
	}

	obs.BalanceMoves.Add(float64(len(all)))
	return current, all
}

// ApplyMoves returns a copy of groups with moves applied in order.
func ApplyMoves(groups *domain.Groups, moves []Move) *domain.Groups {
	out := groups.Clone()
	for _, m := range moves {
		if out.Remove(m.From, m.Sight.Name) {
			out.Append(m.To, m.Sight)
		}
	}
	return out
}

// planPass plans one balancing pass over snapshot without modifying it.
//
// Receivers are visited smallest first. A receiver below 90% of its target
// takes at most one sight from the largest group above 110% of its own
// target that has more than one member. Later receivers in the same pass
// see the effect of earlier moves.
func planPass(snapshot *domain.Groups, categories []domain.Weather, targets map[domain.Weather]float64, center domain.Coordinates) []Move {
	work := snapshot.Clone()

	receivers := append([]domain.Weather(nil), categories...)
	sort.SliceStable(receivers, func(i, j int) bool {
		return work.Size(receivers[i]) < work.Size(receivers[j])
	})

	var moves []Move
	for _, to := range receivers {
		size := float64(work.Size(to))
		target := targets[to]
		if size >= target*receiverRatio {
			continue
		}

		ref, ok := geo.Centroid(work.Members(to))
		if !ok {
			ref = center
		}

		donors := append([]domain.Weather(nil), categories...)
		sort.SliceStable(donors, func(i, j int) bool {
			return work.Size(donors[i]) > work.Size(donors[j])
		})

		for _, from := range donors {
			donorSize := work.Size(from)
			if from == to || float64(donorSize) < targets[from]*donorRatio || donorSize <= 1 {
				continue
			}

			needed := int(math.Max(0, math.Floor(target-size)))
			canGive := int(math.Max(0, math.Floor(float64(donorSize)-targets[from])))
			n := min(needed, canGive, maxTransfer)
			if n == 0 {
				continue
			}

			picked := stealCandidates(work.Members(from), to, ref)[:n]
			for _, s := range picked {
				work.Remove(from, s.Name)
				work.Append(to, s)
				moves = append(moves, Move{Sight: s, From: from, To: to})
			}
			break
		}
	}

	return moves
}

// stealCandidates ranks donor sights by distance to ref, discounted for
// sights that fit anywhere or already list the receiver's weather.
func stealCandidates(donor []domain.Sight, to domain.Weather, ref domain.Coordinates) []domain.Sight {
	type scored struct {
		sight domain.Sight
		score float64
	}

	ranked := make([]scored, 0, len(donor))
	for _, s := range donor {
		score := geo.Distance(ref, s.Location)
		switch {
		case s.Lists(domain.Any):
			score *= anyDiscount
		case s.Lists(to):
			score *= tagDiscount
		}
		ranked = append(ranked, scored{sight: s, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score < ranked[j].score })

	out := make([]domain.Sight, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.sight)
	}
	return out
}
