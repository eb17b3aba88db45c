package ports

import (
	"context"
	"errors"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

// ErrUnroutable is returned when the routing service answers but finds no route.
var ErrUnroutable = errors.New("no route between coordinates")

// Distance, travel duration and path geometry of a multi-stop route.
type RouteResult struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	// Geometry is a polyline of [lon, lat] pairs.
	Geometry [][2]float64 `json:"geometry,omitempty"`
}

// Contract for the external routing collaborator.
type RouteProvider interface {
	// Return the route visiting coords in order. Fewer than two coordinates
	// yield a nil result and no error.
	Route(ctx context.Context, coords []domain.Coordinates, mode domain.TravelMode) (*RouteResult, error)
}
