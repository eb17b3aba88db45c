package ports

import (
	"context"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

// Port: a boundary for retrieving Sight entities from a data source.
type SightRepository interface {
	// Retrieve all sights available for planning.
	ListSights(ctx context.Context) ([]domain.Sight, error)
	// Insert or replace sights by name.
	UpsertSights(ctx context.Context, sights []domain.Sight) error
}
