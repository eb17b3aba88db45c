package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
)

// SelectionPolicy names the strategy whose result should be shown by default.
type SelectionPolicy interface {
	Select(results []domain.PlanResult) string
}

// ShortestPolicy prefers the smallest total haversine subtour length.
// Ties go to the earlier strategy.
type ShortestPolicy struct{}

func (ShortestPolicy) Select(results []domain.PlanResult) string {
	best := -1
	for i, r := range results {
		if best < 0 || r.HaversineTotalSubtourMeters < results[best].HaversineTotalSubtourMeters {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return results[best].Strategy
}

// FastestPolicy prefers the shortest planning time.
type FastestPolicy struct{}

func (FastestPolicy) Select(results []domain.PlanResult) string {
	best := -1
	for i, r := range results {
		if best < 0 || r.PlanningTime < results[best].PlanningTime {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return results[best].Strategy
}

// FixedPolicy always selects one named strategy.
type FixedPolicy struct {
	Strategy string
}

func (p FixedPolicy) Select([]domain.PlanResult) string { return p.Strategy }

// ParseSelectionPolicy maps shortest, fastest or a strategy name to a policy.
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shortest":
		return ShortestPolicy{}, nil
	case "fastest":
		return FastestPolicy{}, nil
	case StrategyAware:
		return FixedPolicy{Strategy: StrategyAware}, nil
	case StrategyIterative:
		return FixedPolicy{Strategy: StrategyIterative}, nil
	}
	return nil, fmt.Errorf("parse selection policy: unknown policy %q", s)
}

// Comparison holds one result per strategy, in strategy order.
type Comparison struct {
	Results  []domain.PlanResult
	Selected string
}

// Comparator runs independent planning strategies side by side.
type Comparator struct {
	strategies []Strategy
	reducer    *Reducer
	policy     SelectionPolicy
}

func NewComparator(reducer *Reducer, policy SelectionPolicy, strategies ...Strategy) *Comparator {
	if reducer == nil {
		reducer = NewReducer(nil, 0)
	}
	if policy == nil {
		policy = ShortestPolicy{}
	}
	return &Comparator{strategies: strategies, reducer: reducer, policy: policy}
}

// Compare plans req with every strategy concurrently, reduces each plan to
// metrics and applies the selection policy. Only planning errors fail the
// comparison; routing problems are reported per result.
func (c *Comparator) Compare(ctx context.Context, req PlanRequest) (_ Comparison, err error) {
	defer obs.Time(ctx, "plan.compare")(&err)

	if err := validateRequest(req); err != nil {
		return Comparison{}, fmt.Errorf("compare plans: %w", err)
	}
	if len(c.strategies) == 0 {
		return Comparison{}, fmt.Errorf("compare plans: no strategies configured")
	}

	results := make([]domain.PlanResult, len(c.strategies))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range c.strategies {
		g.Go(func() (err error) {
			defer obs.Time(gctx, "plan."+s.Name())(&err)

			start := time.Now()
			plan, err := s.Plan(gctx, req)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("strategy %s: %w", s.Name(), err)
			}
			obs.PlanDuration.WithLabelValues(s.Name()).Observe(elapsed.Seconds())

			res := domain.PlanResult{Strategy: s.Name(), Plan: plan, PlanningTime: elapsed}
			c.reducer.Reduce(gctx, &res, req.CityCenter, req.Mode)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Comparison{}, fmt.Errorf("compare plans: %w", err)
	}

	return Comparison{Results: results, Selected: c.policy.Select(results)}, nil
}
