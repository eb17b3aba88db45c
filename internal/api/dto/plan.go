package dto

import (
	"fmt"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

type CoordinatesDTO struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// ToCoordinates rejects a point with either axis missing.
func (c CoordinatesDTO) ToCoordinates() (domain.Coordinates, error) {
	if c.Lat == nil || c.Lon == nil {
		return domain.Coordinates{}, fmt.Errorf("%w: lat and lon are required", domain.ErrInvalidCoordinates)
	}
	loc := domain.Coordinates{Lat: *c.Lat, Lon: *c.Lon}
	if err := loc.Validate(); err != nil {
		return domain.Coordinates{}, err
	}
	return loc, nil
}

type ForecastSlotDTO struct {
	Slot    string `json:"slot"`
	Weather string `json:"weather"`
}

// PlanRequest asks for a weather-aware tour. Forecast order is the visiting
// order of the day. Sights default to the stored catalogue and the city
// center to the sights' centroid.
type PlanRequest struct {
	CityCenter *CoordinatesDTO   `json:"city_center"`
	Forecast   []ForecastSlotDTO `json:"forecast"`
	Sights     []SightDTO        `json:"sights"`
	Mode       string            `json:"mode"`
	Selection  string            `json:"selection"`
}

type SlotResponse struct {
	Slot                         string       `json:"slot"`
	Weather                      string       `json:"weather"`
	Sights                       []string     `json:"sights"`
	HaversineSubtourLengthMeters float64      `json:"haversine_subtour_length_meters"`
	Routed                       bool         `json:"routed"`
	RouteLengthMeters            float64      `json:"route_length_meters,omitempty"`
	RouteDurationSeconds         float64      `json:"route_duration_seconds,omitempty"`
	Geometry                     [][2]float64 `json:"geometry,omitempty"`
	RoutingError                 string       `json:"routing_error,omitempty"`
}

// PlanResponse carries one strategy's plan and metrics. Route totals are
// null unless every multi-stop slot was routed.
type PlanResponse struct {
	Strategy                          string             `json:"strategy"`
	Slots                             []SlotResponse     `json:"slots"`
	PlanningTimeSeconds               float64            `json:"planning_time_seconds"`
	RoutingTimeSeconds                float64            `json:"routing_time_seconds"`
	TotalLengthMeters                 *float64           `json:"total_length_meters"`
	TotalDurationSeconds              *float64           `json:"total_duration_seconds"`
	HaversineSubtourLengthsMeters     map[string]float64 `json:"haversine_subtour_lengths_meters"`
	HaversineTotalSubtourLengthMeters float64            `json:"haversine_total_subtour_length_meters"`
	HaversineTotalLengthMeters        float64            `json:"haversine_total_length_meters"`
	Message                           string             `json:"message,omitempty"`
}

type CompareResponse struct {
	MainWeather string         `json:"main_weather"`
	Selected    string         `json:"selected"`
	Plans       []PlanResponse `json:"plans"`
}

func FromPlanResult(res domain.PlanResult) PlanResponse {
	out := PlanResponse{
		Strategy:                          res.Strategy,
		Slots:                             make([]SlotResponse, 0, len(res.Plan.Slots)),
		PlanningTimeSeconds:               res.PlanningTime.Seconds(),
		RoutingTimeSeconds:                res.RoutingTime.Seconds(),
		HaversineSubtourLengthsMeters:     make(map[string]float64, len(res.Slots)),
		HaversineTotalSubtourLengthMeters: res.HaversineTotalSubtourMeters,
		HaversineTotalLengthMeters:        res.HaversineTotalMeters,
		Message:                           res.Message,
	}

	complete := true
	for i, slot := range res.Plan.Slots {
		sr := SlotResponse{
			Slot:    slot.Slot,
			Weather: slot.Weather.String(),
			Sights:  domain.SightNames(slot.Sights),
		}
		if i < len(res.Slots) {
			m := res.Slots[i]
			sr.HaversineSubtourLengthMeters = m.HaversineMeters
			sr.Routed = m.Routed
			sr.RouteLengthMeters = m.RouteMeters
			sr.RouteDurationSeconds = m.RouteSeconds
			sr.Geometry = m.Geometry
			sr.RoutingError = m.RoutingErrorMsg
			out.HaversineSubtourLengthsMeters[slot.Slot] = m.HaversineMeters
		}
		if len(slot.Sights) >= 2 && !sr.Routed {
			complete = false
		}
		out.Slots = append(out.Slots, sr)
	}

	if complete {
		meters, seconds := res.TotalRouteMeters, res.TotalRouteSeconds
		out.TotalLengthMeters = &meters
		out.TotalDurationSeconds = &seconds
	}
	return out
}
