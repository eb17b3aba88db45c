package services

import (
	"sort"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/geo"
)

// NewSlotDemand tallies forecast slots per weather tag. Categories keep the
// order in which they first appear in the forecast.
func NewSlotDemand(f domain.Forecast) domain.SlotDemand {
	d := domain.SlotDemand{Counts: make(map[domain.Weather]int)}
	for _, s := range f.Slots() {
		if d.Counts[s.Weather] == 0 {
			d.Categories = append(d.Categories, s.Weather)
		}
		d.Counts[s.Weather]++
	}
	return d
}

// InitialGroups places every sight into exactly one weather group.
//
// Sights whose primary tag is forecast go straight into that group. The
// rest are sorted by distance to the city center and dealt round-robin
// across the forecast categories, so flexible sights spread evenly instead
// of piling onto one group. Every forecast category is present in the
// result, possibly empty.
func InitialGroups(sights []domain.Sight, demand domain.SlotDemand, center domain.Coordinates) *domain.Groups {
	categories := demand.Categories
	if len(categories) == 0 {
		categories = []domain.Weather{domain.Any}
	}
	groups := domain.NewGroups(categories...)

	var flexible []domain.Sight
	for _, s := range sights {
		if p := s.PrimaryWeather(); demand.Has(p) {
			groups.Append(p, s)
			continue
		}
		flexible = append(flexible, s)
	}

	sort.SliceStable(flexible, func(i, j int) bool {
		return geo.Distance(flexible[i].Location, center) < geo.Distance(flexible[j].Location, center)
	})
	for i, s := range flexible {
		groups.Append(categories[i%len(categories)], s)
	}

	return groups
}
