package dataaggregator

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
)

// Departures returns the board for a station sorted by actual departure time
func (a *Aggregator) Departures(ctx context.Context, departuresQuery query.Departures) []ctdf.Departure {
	departures, err := a.lookupDepartures(ctx, departuresQuery)
	if err != nil {
		log.Error().Err(err).Str("station", departuresQuery.StationID).Msg("Failed to aggregate departures")
		return []ctdf.Departure{}
	}

	return departures
}

func (a *Aggregator) lookupDepartures(ctx context.Context, departuresQuery query.Departures) ([]ctdf.Departure, error) {
	if departuresQuery.Limit <= 0 {
		departuresQuery.Limit = DefaultDeparturesLimit
	}

	return cachedLookup(ctx, a, departuresQuery.CacheKey(), a.TTL.Departures, func(ctx context.Context) ([]ctdf.Departure, error) {
		return a.fetchDepartures(ctx, departuresQuery)
	})
}

func (a *Aggregator) fetchDepartures(ctx context.Context, departuresQuery query.Departures) ([]ctdf.Departure, error) {
	primary, err := a.primary()
	if err != nil {
		return nil, err
	}

	now := a.now()

	var upstreamDepartures []navitia.Departure
	var realtimeFeeds []string

	p := pool.New().WithErrors()
	p.Go(func() (err error) {
		upstreamDepartures, err = upstream(ctx, a, func(ctx context.Context) ([]navitia.Departure, error) {
			return primary.StationDepartures(ctx, departuresQuery.StationID, departuresQuery.Limit)
		})
		return err
	})
	p.Go(func() error {
		regional, err := a.regional()
		if err != nil {
			return nil
		}

		// Regional realtime feeds are not merged into the board yet, a failure here is not fatal
		realtimeFeeds, err = upstream(ctx, a, func(ctx context.Context) ([]string, error) {
			return regional.RealtimeFeeds(ctx, now)
		})
		if err != nil {
			log.Debug().Err(err).Msg("Failed to list regional realtime feeds")
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("station", departuresQuery.StationID).
		Int("departures", len(upstreamDepartures)).
		Int("regionalfeeds", len(realtimeFeeds)).
		Msg("Fetched departures")

	departures := make([]ctdf.Departure, 0, len(upstreamDepartures))
	for _, upstreamDeparture := range upstreamDepartures {
		departure, ok := normalizeDeparture(upstreamDeparture)
		if !ok {
			continue
		}

		departures = append(departures, departure)
	}

	ctdf.SortDeparturesByActualTime(departures)

	if len(departures) > departuresQuery.Limit {
		departures = departures[:departuresQuery.Limit]
	}

	return departures, nil
}
