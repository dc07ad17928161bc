package global

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/travigo/railinfo/pkg/config"
	"github.com/travigo/railinfo/pkg/dataaggregator"
	"github.com/travigo/railinfo/pkg/dataaggregator/cachedresults"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/transportdatagouv"
	"github.com/travigo/railinfo/pkg/redis_client"
)

// Setup builds the process aggregator. Redis is optional and a failure to reach it only
// disables the shared cache tier.
func Setup(ctx context.Context, cfg *config.Config) (*dataaggregator.Aggregator, error) {
	httpClient := &http.Client{}

	primary := navitia.New(cfg.Navitia.URL, cfg.Navitia.Token, httpClient, cfg.Upstream.Retries)
	regional := transportdatagouv.New(cfg.Catalog.URL, httpClient, cfg.Upstream.Retries)

	if cfg.Navitia.Token == "" {
		log.Warn().Msg("TRAVIGO_NAVITIA_TOKEN is not set, primary source requests will be rejected")
	}

	var shared cachedresults.Shared
	redisClient, err := redis_client.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("Shared results cache disabled")
	} else if redisClient != nil {
		shared = cachedresults.NewRedisShared(redisClient)
	}

	strikeClassifier, err := newStrikeClassifier(cfg.Strikes)
	if err != nil {
		return nil, err
	}

	dashboardStations := make([]dataaggregator.DashboardStation, 0, len(cfg.DashboardStations))
	for _, station := range cfg.DashboardStations {
		dashboardStations = append(dashboardStations, dataaggregator.DashboardStation{
			ID:     station.ID,
			Name:   station.Name,
			Region: station.Region,
		})
	}

	return dataaggregator.New(
		primary,
		regional,
		cachedresults.New(shared),
		dataaggregator.WithTTLs(dataaggregator.TTLs{
			Stations:    cfg.Cache.Stations.Std(),
			Departures:  cfg.Cache.Departures.Std(),
			Disruptions: cfg.Cache.Disruptions.Std(),
			Strikes:     cfg.Cache.Strikes.Std(),
			Dashboard:   cfg.Cache.Dashboard.Std(),
			JourneyPlan: cfg.Cache.JourneyPlan.Std(),
		}),
		dataaggregator.WithUpstreamTimeout(cfg.Upstream.Timeout.Std()),
		dataaggregator.WithStrikeClassifier(strikeClassifier),
		dataaggregator.WithDashboardStations(dashboardStations),
	), nil
}

func newStrikeClassifier(strikesConfig config.StrikesConfig) (dataaggregator.StrikeClassifier, error) {
	if strikesConfig.Rule == "" {
		return dataaggregator.NewKeywordClassifier(strikesConfig.Keywords), nil
	}

	return dataaggregator.NewExprClassifier(strikesConfig.Rule, strikesConfig.Keywords)
}
