package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/geo"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

const defaultRoutingConcurrency = 3

// Reducer turns a TourPlan into distance and duration metrics. Haversine
// figures are always computed; road figures come from the optional
// routing provider.
type Reducer struct {
	provider    ports.RouteProvider
	concurrency int
}

// NewReducer accepts a nil provider, in which case only haversine metrics are filled.
func NewReducer(provider ports.RouteProvider, concurrency int) *Reducer {
	if concurrency <= 0 {
		concurrency = defaultRoutingConcurrency
	}
	return &Reducer{provider: provider, concurrency: concurrency}
}

// Reduce fills the metric fields of res from res.Plan. Routing failures
// never fail the reduction: affected slots stay unrouted and res.Message
// says why.
func (r *Reducer) Reduce(ctx context.Context, res *domain.PlanResult, center domain.Coordinates, mode domain.TravelMode) {
	start := time.Now()
	defer func() { res.RoutingTime = time.Since(start) }()

	res.Slots = make([]domain.SlotMetrics, len(res.Plan.Slots))
	res.HaversineTotalSubtourMeters = 0
	for i, slot := range res.Plan.Slots {
		m := domain.SlotMetrics{
			Slot:            slot.Slot,
			Stops:           len(slot.Sights),
			HaversineMeters: geo.PathLength(geo.Locations(slot.Sights)) * 1000,
		}
		res.Slots[i] = m
		res.HaversineTotalSubtourMeters += m.HaversineMeters
	}

	day := append([]domain.Coordinates{center}, geo.Locations(res.Plan.AllSights())...)
	res.HaversineTotalMeters = geo.PathLength(day) * 1000

	if r.provider == nil {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for i, slot := range res.Plan.Slots {
		if len(slot.Sights) < 2 {
			continue
		}

		g.Go(func() error {
			route, err := r.provider.Route(ctx, geo.Locations(slot.Sights), mode)
			if err != nil || route == nil {
				if err == nil {
					err = ports.ErrUnroutable
				}
				res.Slots[i].RoutingErrorMsg = err.Error()
				return nil
			}

			res.Slots[i].Routed = true
			res.Slots[i].RouteMeters = route.DistanceMeters
			res.Slots[i].RouteSeconds = route.DurationSeconds
			res.Slots[i].Geometry = route.Geometry
			return nil
		})
	}
	_ = g.Wait()

	// Each goroutine writes only its own slot, so failures are read back in
	// slot order.
	var failures []string
	res.TotalRouteMeters, res.TotalRouteSeconds = 0, 0
	for _, m := range res.Slots {
		res.TotalRouteMeters += m.RouteMeters
		res.TotalRouteSeconds += m.RouteSeconds
		if m.RoutingErrorMsg != "" {
			failures = append(failures, fmt.Sprintf("%s: %s", m.Slot, m.RoutingErrorMsg))
		}
	}

	if len(failures) > 0 {
		msg := "could not calculate route for " + strings.Join(failures, "; ")
		obs.Warn(ctx, "plan.reduce", "%s", msg)
		res.Message = msg
	}
}
