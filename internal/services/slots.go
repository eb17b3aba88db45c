package services

import (
	"context"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/geo"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
)

// mapToSlots turns ordered weather groups into a slot plan.
//
// A category forecast for one slot fills that slot. A category forecast
// for several slots is dealt round-robin by index, which keeps each
// sight's relative order inside its slot. Sights of a category with no
// forecast slot are reassigned to the nearest compatible slot, and each
// slot that received such a sight is re-ordered.
func (o *orderer) mapToSlots(ctx context.Context, groups *domain.Groups, f domain.Forecast, center domain.Coordinates) domain.TourPlan {
	plan := domain.NewTourPlan(f)
	index := make(map[string]int, len(plan.Slots))
	for i, s := range plan.Slots {
		index[s.Slot] = i
	}

	byWeather := f.SlotsByWeather()
	var unmatched []domain.Sight
	for _, w := range groups.Categories() {
		members := groups.Members(w)
		slots := byWeather[w]
		if len(slots) == 0 {
			unmatched = append(unmatched, members...)
			continue
		}
		for i, s := range members {
			k := index[slots[i%len(slots)]]
			plan.Slots[k].Sights = append(plan.Slots[k].Sights, s)
		}
	}

	if len(unmatched) == 0 {
		return plan
	}

	touched := make(map[int]bool)
	for _, s := range unmatched {
		k := nearestCompatibleSlot(plan, s, center)
		obs.Warn(ctx, "plan.map_slots", "sight %q has no %s slot, reassigned to %s",
			s.Name, s.PrimaryWeather(), plan.Slots[k].Slot)
		plan.Slots[k].Sights = append(plan.Slots[k].Sights, s)
		touched[k] = true
	}

	for k := range plan.Slots {
		if touched[k] {
			plan.Slots[k].Sights = o.order(ctx, plan.Slots[k].Sights)
		}
	}
	return plan
}

// nearestCompatibleSlot picks the slot whose current members' centroid is
// closest to s, among slots whose weather s lists (all slots when s lists
// any, or when no slot matches). Empty slots measure from center. Ties go
// to the earlier slot.
func nearestCompatibleSlot(plan domain.TourPlan, s domain.Sight, center domain.Coordinates) int {
	candidates := make([]int, 0, len(plan.Slots))
	for k, slot := range plan.Slots {
		if s.SuitableFor(slot.Weather) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		for k := range plan.Slots {
			candidates = append(candidates, k)
		}
	}

	best, bestDist := candidates[0], -1.0
	for _, k := range candidates {
		ref, ok := geo.Centroid(plan.Slots[k].Sights)
		if !ok {
			ref = center
		}
		if d := geo.Distance(s.Location, ref); bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
