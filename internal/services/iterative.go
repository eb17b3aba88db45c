package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/tsp"
)

const DefaultMaxIters = 4

// IterationTrace reports how the iterative planner ended.
type IterationTrace struct {
	Iterations int
	Converged  bool
	Moves      int
}

// IterativePlanner alternates exact per-group ordering and group balancing
// until a balancing pass moves nothing, then maps groups to slots.
type IterativePlanner struct {
	maxIters int
	balancer *Balancer
	order    *orderer
}

func NewIterativePlanner(solver *tsp.Solver, maxIters int, solveTimeout time.Duration) *IterativePlanner {
	if maxIters <= 0 {
		maxIters = DefaultMaxIters
	}
	return &IterativePlanner{
		maxIters: maxIters,
		balancer: NewBalancer(),
		order:    newOrderer(solver, solveTimeout),
	}
}

func (p *IterativePlanner) Name() string { return StrategyIterative }

func (p *IterativePlanner) Plan(ctx context.Context, req PlanRequest) (domain.TourPlan, error) {
	plan, _, err := p.PlanWithTrace(ctx, req)
	return plan, err
}

// PlanWithTrace is Plan plus iteration details.
func (p *IterativePlanner) PlanWithTrace(ctx context.Context, req PlanRequest) (domain.TourPlan, IterationTrace, error) {
	if err := validateRequest(req); err != nil {
		return domain.TourPlan{}, IterationTrace{}, fmt.Errorf("plan iterative: %w", err)
	}

	demand := NewSlotDemand(req.Forecast)
	groups := InitialGroups(req.Sights, demand, req.CityCenter)

	var trace IterationTrace
	for trace.Iterations < p.maxIters {
		if err := ctx.Err(); err != nil {
			return domain.TourPlan{}, trace, fmt.Errorf("plan iterative: %w", err)
		}
		trace.Iterations++

		ordered := p.order.orderGroups(ctx, groups)
		balanced, moves := p.balancer.Balance(ordered, demand, req.CityCenter)
		groups = balanced
		trace.Moves += len(moves)

		if len(moves) == 0 {
			trace.Converged = true
			break
		}
	}

	// Sights moved in the last pass are appended unordered.
	if !trace.Converged {
		groups = p.order.orderGroups(ctx, groups)
	}

	return p.order.mapToSlots(ctx, groups, req.Forecast, req.CityCenter), trace, nil
}
