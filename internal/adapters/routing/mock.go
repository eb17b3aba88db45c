package routing

import (
	"context"
	"sync/atomic"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/geo"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

// Straight-line speeds used by the mock, in meters per second.
var mockSpeeds = map[domain.TravelMode]float64{
	domain.Walking: 1.4,
	domain.Cycling: 4.2,
	domain.Driving: 11.0,
}

// MockRouteProvider answers from haversine geometry without network
// access. Err, when set, is returned for every routable request.
type MockRouteProvider struct {
	Err   error
	calls atomic.Int64
}

func NewMockRouteProvider() *MockRouteProvider {
	return &MockRouteProvider{}
}

// Calls returns how many routable requests were served.
func (p *MockRouteProvider) Calls() int { return int(p.calls.Load()) }

func (p *MockRouteProvider) Route(ctx context.Context, coords []domain.Coordinates, mode domain.TravelMode) (*ports.RouteResult, error) {
	if len(coords) < 2 {
		return nil, nil
	}
	p.calls.Add(1)
	if p.Err != nil {
		return nil, p.Err
	}

	speed, ok := mockSpeeds[mode]
	if !ok {
		speed = mockSpeeds[domain.Walking]
	}

	meters := geo.PathLength(coords) * 1000
	geometry := make([][2]float64, 0, len(coords))
	for _, c := range coords {
		geometry = append(geometry, [2]float64{c.Lon, c.Lat})
	}
	return &ports.RouteResult{
		DistanceMeters:  meters,
		DurationSeconds: meters / speed,
		Geometry:        geometry,
	}, nil
}
