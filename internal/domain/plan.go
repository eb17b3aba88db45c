package domain

import "time"

// SlotPlan is the ordered visiting sequence for one slot.
type SlotPlan struct {
	Slot    string
	Weather Weather
	Sights  []Sight
}

// TourPlan is the output of a planning strategy: slot -> ordered sights,
// in forecast slot order. It is immutable planning data.
type TourPlan struct {
	Slots []SlotPlan
}

// NewTourPlan creates an empty plan with one entry per forecast slot.
func NewTourPlan(f Forecast) TourPlan {
	slots := f.Slots()
	out := TourPlan{Slots: make([]SlotPlan, 0, len(slots))}
	for _, s := range slots {
		out.Slots = append(out.Slots, SlotPlan{Slot: s.Name, Weather: s.Weather, Sights: []Sight{}})
	}
	return out
}

// Sights returns the ordered sights of slot, or nil for an unknown slot.
func (p TourPlan) Sights(slot string) []Sight {
	for _, s := range p.Slots {
		if s.Slot == slot {
			return s.Sights
		}
	}
	return nil
}

// AllSights returns every planned sight, slot by slot, in visiting order.
func (p TourPlan) AllSights() []Sight {
	var out []Sight
	for _, s := range p.Slots {
		out = append(out, s.Sights...)
	}
	return out
}

// Len returns the number of planned sights.
func (p TourPlan) Len() int {
	n := 0
	for _, s := range p.Slots {
		n += len(s.Sights)
	}
	return n
}

// Equal compares slot names and sight order by name.
func (p TourPlan) Equal(o TourPlan) bool {
	if len(p.Slots) != len(o.Slots) {
		return false
	}
	for i := range p.Slots {
		a, b := p.Slots[i], o.Slots[i]
		if a.Slot != b.Slot || len(a.Sights) != len(b.Sights) {
			return false
		}
		for j := range a.Sights {
			if a.Sights[j].Name != b.Sights[j].Name {
				return false
			}
		}
	}
	return true
}

// SlotMetrics are the distance/duration figures for one slot's subtour.
type SlotMetrics struct {
	Slot            string
	Stops           int
	HaversineMeters float64

	// Routed is false when the routing collaborator was not asked, had
	// nothing to route, or failed; route figures are then zero.
	Routed          bool
	RouteMeters     float64
	RouteSeconds    float64
	Geometry        [][2]float64
	RoutingErrorMsg string
}

// PlanResult is a TourPlan with its planning and reduction metrics.
type PlanResult struct {
	Strategy     string
	Plan         TourPlan
	PlanningTime time.Duration
	RoutingTime  time.Duration

	Slots []SlotMetrics

	HaversineTotalSubtourMeters float64
	// HaversineTotalMeters covers the whole day: city center, then every
	// slot's sights in visiting order.
	HaversineTotalMeters float64

	TotalRouteMeters  float64
	TotalRouteSeconds float64

	Message string
}
