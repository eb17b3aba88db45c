package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/tsp"
)

const maxGreedySteal = 2

// GreedyPlanner is the single-pass weather-aware baseline.
type GreedyPlanner struct {
	order *orderer
}

func NewGreedyPlanner(solver *tsp.Solver, solveTimeout time.Duration) *GreedyPlanner {
	return &GreedyPlanner{order: newOrderer(solver, solveTimeout)}
}

func (p *GreedyPlanner) Name() string { return StrategyAware }

// Plan groups sights by primary weather, orders each specific group once,
// shares "any" sights out by forecast slot count and fills empty forecast
// categories from the largest group that has suitable sights.
func (p *GreedyPlanner) Plan(ctx context.Context, req PlanRequest) (domain.TourPlan, error) {
	if err := validateRequest(req); err != nil {
		return domain.TourPlan{}, fmt.Errorf("plan greedy: %w", err)
	}

	demand := NewSlotDemand(req.Forecast)

	sorted := append([]domain.Sight(nil), req.Sights...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return restrictiveness(sorted[i]) < restrictiveness(sorted[j])
	})

	groups := domain.NewGroups(demand.Categories...)
	var flexible []domain.Sight
	for _, s := range sorted {
		if w := s.PrimaryWeather(); w != domain.Any {
			groups.Append(w, s)
			continue
		}
		flexible = append(flexible, s)
	}

	for _, w := range groups.Categories() {
		if err := ctx.Err(); err != nil {
			return domain.TourPlan{}, fmt.Errorf("plan greedy: %w", err)
		}
		groups.Set(w, p.order.order(ctx, groups.Members(w)))
	}

	alloc := anyAllocation(len(flexible), demand)
	idx := 0
	for _, w := range demand.Categories {
		n := alloc[w]
		groups.Append(w, flexible[idx:idx+n]...)
		idx += n
	}

	fillEmptyCategories(groups, demand)

	return p.order.mapToSlots(ctx, groups, req.Forecast, req.CityCenter), nil
}

// restrictiveness ranks a sight by its first listed tag in canonical
// weather order; any comes after every concrete weather.
func restrictiveness(s domain.Sight) int {
	for i, w := range domain.ConcreteWeathers {
		if s.Lists(w) {
			return i
		}
	}
	if s.Lists(domain.Any) {
		return len(domain.ConcreteWeathers)
	}
	return len(domain.ConcreteWeathers) + 1
}

// anyAllocation splits n flexible sights across forecast categories in
// proportion to their slot counts. Truncation leftovers go to the category
// with the most slots, the earliest one on ties.
func anyAllocation(n int, demand domain.SlotDemand) map[domain.Weather]int {
	out := make(map[domain.Weather]int, len(demand.Categories))
	total := demand.Total()
	if total == 0 {
		return out
	}

	assigned := 0
	var largest domain.Weather
	for _, w := range demand.Categories {
		out[w] = n * demand.Count(w) / total
		assigned += out[w]
		if largest == "" || demand.Count(w) > demand.Count(largest) {
			largest = w
		}
	}
	out[largest] += n - assigned
	return out
}

// fillEmptyCategories gives each empty forecast category up to two sights
// that explicitly list its weather, taken from the largest group holding
// such sights. A donor always keeps at least one sight.
func fillEmptyCategories(groups *domain.Groups, demand domain.SlotDemand) {
	for _, empty := range demand.Categories {
		if groups.Size(empty) > 0 {
			continue
		}

		donor := domain.Weather("")
		for _, w := range groups.Categories() {
			if w == empty || groups.Size(w) <= 1 {
				continue
			}
			if !anyLists(groups.Members(w), empty) {
				continue
			}
			if donor == "" || groups.Size(w) > groups.Size(donor) {
				donor = w
			}
		}
		if donor == "" {
			continue
		}

		var stolen []domain.Sight
		for _, s := range groups.Members(donor) {
			if len(stolen) == maxGreedySteal || groups.Size(donor)-len(stolen) <= 1 {
				break
			}
			if s.Lists(empty) {
				stolen = append(stolen, s)
			}
		}
		for _, s := range stolen {
			groups.Remove(donor, s.Name)
			groups.Append(empty, s)
		}
	}
}

func anyLists(sights []domain.Sight, w domain.Weather) bool {
	for _, s := range sights {
		if s.Lists(w) {
			return true
		}
	}
	return false
}
