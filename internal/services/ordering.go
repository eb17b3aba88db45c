package services

import (
	"context"
	"errors"
	"time"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/geo"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/tsp"
)

// orderer sequences sights with the exact TSP solver. A solve that cannot
// prove optimality in time uses the best tour the solver found; any other
// failure keeps the incoming order. Sights are never dropped.
type orderer struct {
	solver  *tsp.Solver
	timeout time.Duration
}

func newOrderer(solver *tsp.Solver, timeout time.Duration) *orderer {
	if solver == nil {
		solver = tsp.NewSolver(tsp.DefaultOptions())
	}
	return &orderer{solver: solver, timeout: timeout}
}

func (o *orderer) order(ctx context.Context, sights []domain.Sight) []domain.Sight {
	out := append([]domain.Sight(nil), sights...)
	if len(sights) <= 2 {
		obs.TSPSolves.WithLabelValues("trivial").Inc()
		return out
	}

	solveCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	idx, err := o.solver.Solve(solveCtx, geo.DistanceMatrix(sights))
	switch {
	case err == nil:
		obs.TSPSolves.WithLabelValues("optimal").Inc()
	case errors.Is(err, tsp.ErrNoOptimalTour) && len(idx) == len(sights):
		obs.TSPSolves.WithLabelValues("fallback").Inc()
		obs.Warn(ctx, "tsp.solve", "using best tour found for %d sights: %v", len(sights), err)
	default:
		obs.TSPSolves.WithLabelValues("error").Inc()
		obs.Warn(ctx, "tsp.solve", "keeping current order of %d sights: %v", len(sights), err)
		return out
	}

	for i, k := range idx {
		out[i] = sights[k]
	}
	return out
}

// orderGroups returns a copy of groups with every category TSP-ordered.
func (o *orderer) orderGroups(ctx context.Context, groups *domain.Groups) *domain.Groups {
	out := groups.Clone()
	for _, w := range out.Categories() {
		out.Set(w, o.order(ctx, out.Members(w)))
	}
	return out
}
