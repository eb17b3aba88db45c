package routing

import "github.com/Rebecca042/CityTour-Planner/internal/domain"

func osrmProfile(m domain.TravelMode) string {
	switch m {
	case domain.Cycling:
		return "bike"
	case domain.Driving:
		return "driving"
	default:
		return "foot"
	}
}

func orsProfile(m domain.TravelMode) string {
	switch m {
	case domain.Cycling:
		return "cycling-regular"
	case domain.Driving:
		return "driving-car"
	default:
		return "foot-walking"
	}
}
