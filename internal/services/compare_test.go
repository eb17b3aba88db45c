package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rebecca042/CityTour-Planner/internal/adapters/routing"
	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

type stubStrategy struct {
	name string
	plan domain.TourPlan
	err  error
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Plan(ctx context.Context, req PlanRequest) (domain.TourPlan, error) {
	return s.plan, s.err
}

func compareRequest(t *testing.T) PlanRequest {
	return PlanRequest{
		Sights: []domain.Sight{
			at("flex", 48.140, 11.570, domain.Any),
			at("garden", 48.142, 11.580, domain.Sunny),
			at("museum", 48.135, 11.572, domain.Rainy),
			at("tower", 48.138, 11.578, domain.Cloudy),
			at("hall", 48.136, 11.576, domain.Rainy, domain.Cloudy),
		},
		Forecast:   forecast(t, "morning", "sunny", "afternoon", "rainy", "evening", "cloudy"),
		CityCenter: munich,
		Mode:       domain.Walking,
	}
}

func TestComparatorRunsBothStrategies(t *testing.T) {
	req := compareRequest(t)
	c := NewComparator(
		NewReducer(routing.NewMockRouteProvider(), 0),
		ShortestPolicy{},
		NewGreedyPlanner(nil, 0),
		NewIterativePlanner(nil, 0, time.Second),
	)

	cmp, err := c.Compare(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, cmp.Results, 2)
	require.Equal(t, StrategyAware, cmp.Results[0].Strategy)
	require.Equal(t, StrategyIterative, cmp.Results[1].Strategy)

	for _, r := range cmp.Results {
		requireEachSightOnce(t, req.Sights, r.Plan)
		require.Len(t, r.Slots, 3)
		require.Positive(t, r.PlanningTime)
	}
	require.Contains(t, []string{StrategyAware, StrategyIterative}, cmp.Selected)
}

func TestComparatorPlanningErrorFails(t *testing.T) {
	c := NewComparator(nil, nil, stubStrategy{name: "broken", err: errors.New("boom")})

	_, err := c.Compare(context.Background(), compareRequest(t))
	require.ErrorContains(t, err, "boom")
}

func TestComparatorRejectsInvalidRequest(t *testing.T) {
	c := NewComparator(nil, nil, NewGreedyPlanner(nil, 0))

	_, err := c.Compare(context.Background(), PlanRequest{})
	require.ErrorIs(t, err, domain.ErrEmptyForecast)
}

func TestSelectionPolicies(t *testing.T) {
	results := []domain.PlanResult{
		{Strategy: StrategyAware, HaversineTotalSubtourMeters: 900, PlanningTime: time.Millisecond},
		{Strategy: StrategyIterative, HaversineTotalSubtourMeters: 700, PlanningTime: 5 * time.Millisecond},
	}

	require.Equal(t, StrategyIterative, ShortestPolicy{}.Select(results))
	require.Equal(t, StrategyAware, FastestPolicy{}.Select(results))
	require.Equal(t, StrategyAware, FixedPolicy{Strategy: StrategyAware}.Select(results))

	results[1].HaversineTotalSubtourMeters = 900
	require.Equal(t, StrategyAware, ShortestPolicy{}.Select(results), "ties go to the earlier strategy")
}

func TestParseSelectionPolicy(t *testing.T) {
	p, err := ParseSelectionPolicy("")
	require.NoError(t, err)
	require.IsType(t, ShortestPolicy{}, p)

	p, err = ParseSelectionPolicy("Iterative")
	require.NoError(t, err)
	require.Equal(t, FixedPolicy{Strategy: StrategyIterative}, p)

	_, err = ParseSelectionPolicy("cheapest")
	require.Error(t, err)
}
