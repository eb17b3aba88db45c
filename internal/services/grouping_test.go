package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

func TestNewSlotDemand(t *testing.T) {
	d := NewSlotDemand(forecast(t, "morning", "cloudy", "afternoon", "sunny", "evening", "cloudy"))

	require.Equal(t, []domain.Weather{domain.Cloudy, domain.Sunny}, d.Categories)
	require.Equal(t, 2, d.Count(domain.Cloudy))
	require.Equal(t, 1, d.Count(domain.Sunny))
	require.Equal(t, 3, d.Total())
	require.False(t, d.Has(domain.Rainy))
}

func TestInitialGroups(t *testing.T) {
	center := domain.Coordinates{Lat: 0, Lon: 0}
	sights := []domain.Sight{
		at("museum", 0.01, 0, domain.Rainy),
		at("far park", 0.05, 0, domain.Any),
		at("near park", 0.01, 0.01),
		at("ski hill", 0.02, 0, domain.Snowy, domain.Sunny),
		at("beach", 0.03, 0, domain.Sunny),
	}
	demand := NewSlotDemand(forecast(t, "morning", "sunny", "afternoon", "rainy"))

	g := InitialGroups(sights, demand, center)

	require.Equal(t, []domain.Weather{domain.Sunny, domain.Rainy}, g.Categories())
	require.Equal(t, 5, g.Total())
	// Flexible sights by distance: near park, ski hill, far park; dealt sunny, rainy, sunny.
	require.Equal(t, []string{"beach", "near park", "far park"}, names(g.Members(domain.Sunny)))
	require.Equal(t, []string{"museum", "ski hill"}, names(g.Members(domain.Rainy)))
}

func TestInitialGroupsKeepsEmptyCategories(t *testing.T) {
	demand := NewSlotDemand(forecast(t, "morning", "sunny", "afternoon", "rainy"))
	g := InitialGroups([]domain.Sight{at("a", 0, 0, domain.Sunny)}, demand, domain.Coordinates{})

	require.True(t, g.Has(domain.Rainy))
	require.Zero(t, g.Size(domain.Rainy))
}
