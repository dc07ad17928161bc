package dataaggregator

import (
	"context"
	"errors"
	"fmt"

	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
)

var ErrInvalidJourneyPlan = errors.New("journey plan needs an origin and a destination")

// PlanJourney passes the request through to the primary source. Unlike the other lookups the
// failure is returned so the planner endpoint can report it.
func (a *Aggregator) PlanJourney(ctx context.Context, journeyPlanQuery query.JourneyPlan) ([]ctdf.Itinerary, error) {
	if journeyPlanQuery.Origin == "" || journeyPlanQuery.Destination == "" {
		return nil, ErrInvalidJourneyPlan
	}

	return cachedLookup(ctx, a, journeyPlanQuery.CacheKey(), a.TTL.JourneyPlan, func(ctx context.Context) ([]ctdf.Itinerary, error) {
		primary, err := a.primary()
		if err != nil {
			return nil, err
		}

		journeys, err := upstream(ctx, a, func(ctx context.Context) ([]navitia.Journey, error) {
			return primary.PlanJourney(ctx, journeyPlanQuery.Origin, journeyPlanQuery.Destination, journeyPlanQuery.DateTime)
		})
		if err != nil {
			return nil, fmt.Errorf("plan journey %s to %s: %w", journeyPlanQuery.Origin, journeyPlanQuery.Destination, err)
		}

		itineraries := make([]ctdf.Itinerary, 0, len(journeys))
		for _, journey := range journeys {
			if itinerary, ok := normalizeItinerary(journey); ok {
				itineraries = append(itineraries, itinerary)
			}
		}

		return itineraries, nil
	})
}
