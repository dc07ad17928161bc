package dataaggregator

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/transportdatagouv"
)

// Stations searches the primary source and stamps the batch with the best regional dataset.
// Without a query nothing is fetched.
func (a *Aggregator) Stations(ctx context.Context, stationsQuery query.Stations) []ctdf.Station {
	if stationsQuery.Limit <= 0 {
		stationsQuery.Limit = DefaultStationsLimit
	}

	if stationsQuery.Query == "" {
		return []ctdf.Station{}
	}

	stations, err := cachedLookup(ctx, a, stationsQuery.CacheKey(), a.TTL.Stations, func(ctx context.Context) ([]ctdf.Station, error) {
		return a.fetchStations(ctx, stationsQuery)
	})
	if err != nil {
		log.Error().Err(err).Str("query", stationsQuery.Query).Msg("Failed to aggregate stations")
		return []ctdf.Station{}
	}

	return stations
}

func (a *Aggregator) fetchStations(ctx context.Context, stationsQuery query.Stations) ([]ctdf.Station, error) {
	primary, err := a.primary()
	if err != nil {
		return nil, err
	}
	regional, err := a.regional()
	if err != nil {
		return nil, err
	}

	now := a.now()

	var stopAreas []navitia.StopArea
	var datasets []transportdatagouv.Dataset

	p := pool.New().WithErrors()
	p.Go(func() (err error) {
		stopAreas, err = upstream(ctx, a, func(ctx context.Context) ([]navitia.StopArea, error) {
			return primary.SearchStations(ctx, stationsQuery.Query, stationsQuery.Limit)
		})
		return err
	})
	p.Go(func() (err error) {
		datasets, err = upstream(ctx, a, func(ctx context.Context) ([]transportdatagouv.Dataset, error) {
			return regional.ActiveDatasets(ctx, now)
		})
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	stations := make([]ctdf.Station, 0, len(stopAreas))
	for _, stopArea := range stopAreas {
		if stopArea.ID == "" || stopArea.Name == "" {
			continue
		}

		stations = append(stations, normalizeStation(stopArea, now))
	}

	if len(stations) > stationsQuery.Limit {
		stations = stations[:stationsQuery.Limit]
	}

	enrichStations(stations, bestRegionalDataset(datasets, now))

	return stations, nil
}
