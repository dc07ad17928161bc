package routes

import (
	"context"

	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/cachedresults"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
)

// Aggregator is the part of dataaggregator.Aggregator the endpoints use
type Aggregator interface {
	Stations(ctx context.Context, stationsQuery query.Stations) []ctdf.Station
	Departures(ctx context.Context, departuresQuery query.Departures) []ctdf.Departure
	Disruptions(ctx context.Context, disruptionsQuery query.Disruptions) []ctdf.Disruption
	CurrentStrikes(ctx context.Context) []ctdf.StrikeInfo
	LiveDashboard(ctx context.Context) ctdf.LiveDashboardData
	PlanJourney(ctx context.Context, journeyPlanQuery query.JourneyPlan) ([]ctdf.Itinerary, error)
	ClearCache(ctx context.Context, pattern string) int
	CacheStats() cachedresults.Stats
}
