package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

func at(name string, lat, lon float64, tags ...domain.Weather) domain.Sight {
	return domain.Sight{
		Name:               name,
		Location:           domain.Coordinates{Lat: lat, Lon: lon},
		Category:           "test",
		WeatherSuitability: tags,
	}
}

func forecast(t *testing.T, pairs ...string) domain.Forecast {
	t.Helper()
	require.Zero(t, len(pairs)%2, "pairs must be slot/weather")

	slots := make([]domain.Slot, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		w, err := domain.ParseWeather(pairs[i+1])
		require.NoError(t, err)
		slots = append(slots, domain.Slot{Name: pairs[i], Weather: w})
	}
	f, err := domain.NewForecast(slots...)
	require.NoError(t, err)
	return f
}

// requireEachSightOnce checks that plan holds every input sight exactly once.
func requireEachSightOnce(t *testing.T, sights []domain.Sight, plan domain.TourPlan) {
	t.Helper()
	seen := make(map[string]int)
	for _, s := range plan.AllSights() {
		seen[s.Name]++
	}
	require.Len(t, seen, len(sights))
	for _, s := range sights {
		require.Equal(t, 1, seen[s.Name], "sight %q", s.Name)
	}
}

func names(sights []domain.Sight) []string { return domain.SightNames(sights) }
