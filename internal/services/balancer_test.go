package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

func TestTargets(t *testing.T) {
	demand := NewSlotDemand(forecast(t, "m", "sunny", "a", "sunny", "e", "rainy"))
	targets := Targets(9, demand)

	require.InDelta(t, 6.0, targets[domain.Sunny], 1e-9)
	require.InDelta(t, 3.0, targets[domain.Rainy], 1e-9)
}

func TestBalanceFillsEmptyReceiver(t *testing.T) {
	demand := NewSlotDemand(forecast(t, "m", "sunny", "a", "rainy"))
	groups := domain.NewGroups(domain.Sunny, domain.Rainy)
	groups.Append(domain.Sunny, at("a", 0, 0.02, domain.Sunny), at("b", 0, 0.01, domain.Sunny))

	out, moves := NewBalancer().Balance(groups, demand, domain.Coordinates{})

	require.Len(t, moves, 1)
	require.Equal(t, 1, out.Size(domain.Sunny))
	require.Equal(t, 1, out.Size(domain.Rainy))
	// The receiver is empty, so candidates are ranked by distance to the city center.
	require.Equal(t, "b", moves[0].Sight.Name)
	require.Equal(t, domain.Sunny, moves[0].From)
	require.Equal(t, domain.Rainy, moves[0].To)

	require.Equal(t, 2, groups.Size(domain.Sunny), "input groups must not change")
}

func TestBalanceNeverEmptiesDonor(t *testing.T) {
	demand := NewSlotDemand(forecast(t, "m", "sunny", "a", "rainy", "e", "cloudy"))
	groups := domain.NewGroups(domain.Sunny, domain.Rainy, domain.Cloudy)
	groups.Append(domain.Sunny, at("only", 0, 0, domain.Any))

	out, moves := NewBalancer().Balance(groups, demand, domain.Coordinates{})

	require.Empty(t, moves)
	require.Equal(t, 1, out.Size(domain.Sunny))
}

func TestBalanceConvergesToTargets(t *testing.T) {
	demand := NewSlotDemand(forecast(t, "m", "sunny", "a", "rainy", "e", "cloudy"))
	groups := domain.NewGroups(demand.Categories...)
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		groups.Append(domain.Sunny, at(name, 0, 0.01*float64(i+1), domain.Any))
	}

	out, moves := NewBalancer().Balance(groups, demand, domain.Coordinates{})

	require.Len(t, moves, 4)
	require.Equal(t, 6, out.Total())
	for _, w := range demand.Categories {
		require.Equal(t, 2, out.Size(w), "category %s", w)
	}
}

func TestStealCandidatesPrefersFlexibleSights(t *testing.T) {
	ref := domain.Coordinates{}
	donor := []domain.Sight{
		at("specific", 0, 0.010, domain.Sunny),
		at("tagged", 0, 0.012, domain.Sunny, domain.Rainy),
		at("flexible", 0, 0.015, domain.Any),
	}

	got := stealCandidates(donor, domain.Rainy, ref)

	// Scores: specific 1.0, tagged 0.96, flexible 0.75 (in units of 0.01 degree).
	require.Equal(t, []string{"flexible", "tagged", "specific"}, names(got))
}

func TestPlanPassLeavesSnapshotUntouched(t *testing.T) {
	demand := NewSlotDemand(forecast(t, "m", "sunny", "a", "rainy"))
	snapshot := domain.NewGroups(domain.Sunny, domain.Rainy)
	snapshot.Append(domain.Sunny, at("a", 0, 0.01, domain.Any), at("b", 0, 0.02, domain.Any), at("c", 0, 0.03, domain.Any))
	before := snapshot.Clone()

	moves := planPass(snapshot, demand.Categories, Targets(3, demand), domain.Coordinates{})

	require.NotEmpty(t, moves)
	require.True(t, snapshot.SameMembership(before))

	applied := ApplyMoves(snapshot, moves)
	require.Equal(t, 3, applied.Total())
	require.Equal(t, len(moves), applied.Size(domain.Rainy))
}
