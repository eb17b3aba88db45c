package services

import (
	"context"
	"fmt"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

const (
	StrategyAware     = "aware"
	StrategyIterative = "iterative"
)

type PlanRequest struct {
	Sights     []domain.Sight
	Forecast   domain.Forecast
	CityCenter domain.Coordinates
	Mode       domain.TravelMode
}

// Strategy assigns sights to forecast slots and orders each slot.
type Strategy interface {
	Name() string
	Plan(ctx context.Context, req PlanRequest) (domain.TourPlan, error)
}

func validateRequest(req PlanRequest) error {
	if len(req.Forecast.Slots()) == 0 {
		return domain.ErrEmptyForecast
	}
	if err := req.CityCenter.Validate(); err != nil {
		return fmt.Errorf("city center: %w", err)
	}
	return domain.ValidateSights(req.Sights)
}
