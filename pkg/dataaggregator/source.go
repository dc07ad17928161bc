package dataaggregator

import (
	"context"
	"time"

	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/transportdatagouv"
)

// PrimarySource is the journey planner / realtime API stations and departures come from
type PrimarySource interface {
	GetName() string
	SearchStations(ctx context.Context, query string, limit int) ([]navitia.StopArea, error)
	StationDepartures(ctx context.Context, stationID string, limit int) ([]navitia.Departure, error)
	Disruptions(ctx context.Context, limit int) ([]navitia.Disruption, error)
	PlanJourney(ctx context.Context, originID string, destinationID string, dateTime time.Time) ([]navitia.Journey, error)
}

// RegionalSource is the open data catalog used for enrichment
type RegionalSource interface {
	GetName() string
	ActiveDatasets(ctx context.Context, now time.Time) ([]transportdatagouv.Dataset, error)
	RealtimeFeeds(ctx context.Context, now time.Time) ([]string, error)
}
