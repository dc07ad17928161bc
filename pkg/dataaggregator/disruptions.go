package dataaggregator

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
)

func (a *Aggregator) Disruptions(ctx context.Context, disruptionsQuery query.Disruptions) []ctdf.Disruption {
	disruptions, err := a.lookupDisruptions(ctx, disruptionsQuery)
	if err != nil {
		log.Error().Err(err).Int("limit", disruptionsQuery.Limit).Msg("Failed to aggregate disruptions")
		return []ctdf.Disruption{}
	}

	return disruptions
}

func (a *Aggregator) lookupDisruptions(ctx context.Context, disruptionsQuery query.Disruptions) ([]ctdf.Disruption, error) {
	if disruptionsQuery.Limit <= 0 {
		disruptionsQuery.Limit = DefaultDisruptionsLimit
	}

	return cachedLookup(ctx, a, disruptionsQuery.CacheKey(), a.TTL.Disruptions, func(ctx context.Context) ([]ctdf.Disruption, error) {
		primary, err := a.primary()
		if err != nil {
			return nil, err
		}

		upstreamDisruptions, err := upstream(ctx, a, func(ctx context.Context) ([]navitia.Disruption, error) {
			return primary.Disruptions(ctx, disruptionsQuery.Limit)
		})
		if err != nil {
			return nil, err
		}

		now := a.now()

		disruptions := make([]ctdf.Disruption, 0, len(upstreamDisruptions))
		for _, upstreamDisruption := range upstreamDisruptions {
			disruption, ok := normalizeDisruption(upstreamDisruption, now)
			if !ok {
				continue
			}

			disruptions = append(disruptions, disruption)
		}

		if len(disruptions) > disruptionsQuery.Limit {
			disruptions = disruptions[:disruptionsQuery.Limit]
		}

		return disruptions, nil
	})
}
