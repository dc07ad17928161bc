package dataaggregator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
	"golang.org/x/exp/slices"
)

const (
	dashboardDisruptionsLimit = 20
	dashboardDeparturesLimit  = 20
	dashboardMajorDelays      = 5

	severeHighDisruptions = 5
	disruptedDisruptions  = 10

	// Share of a region's departures that are delayed or cancelled
	regionDisruptedRatio = 0.2
	regionSevereRatio    = 0.5
)

// LiveDashboard composes strikes, recent disruptions and the delay picture of the configured
// dashboard stations
func (a *Aggregator) LiveDashboard(ctx context.Context) ctdf.LiveDashboardData {
	dashboard, err := cachedLookup(ctx, a, query.DashboardCacheKey, a.TTL.Dashboard, a.fetchLiveDashboard)
	if err != nil {
		log.Error().Err(err).Msg("Failed to aggregate live dashboard")
		return ctdf.EmptyLiveDashboard(a.now())
	}

	return dashboard
}

type stationDepartures struct {
	station    DashboardStation
	departures []ctdf.Departure
}

func (a *Aggregator) fetchLiveDashboard(ctx context.Context) (ctdf.LiveDashboardData, error) {
	dashboard := ctdf.EmptyLiveDashboard(a.now())

	var strikesErr, disruptionsErr error
	var mutex sync.Mutex
	boards := []stationDepartures{}

	p := pool.New()
	p.Go(func() {
		var strikes []ctdf.StrikeInfo
		strikes, strikesErr = a.lookupStrikes(ctx)
		if strikesErr == nil {
			dashboard.Strikes = strikes
		}
	})
	p.Go(func() {
		var disruptions []ctdf.Disruption
		disruptions, disruptionsErr = a.lookupDisruptions(ctx, query.Disruptions{Limit: dashboardDisruptionsLimit})
		if disruptionsErr == nil {
			dashboard.Disruptions = disruptions
		}
	})
	for _, station := range a.DashboardStations {
		station := station
		p.Go(func() {
			departures, err := a.lookupDepartures(ctx, query.Departures{StationID: station.ID, Limit: dashboardDeparturesLimit})
			if err != nil {
				log.Debug().Err(err).Str("station", station.ID).Msg("Dashboard station departures unavailable")
				return
			}

			mutex.Lock()
			boards = append(boards, stationDepartures{station: station, departures: departures})
			mutex.Unlock()
		})
	}
	p.Wait()

	if strikesErr != nil && disruptionsErr != nil && len(boards) == 0 {
		return dashboard, errors.Join(strikesErr, disruptionsErr)
	}

	// Completion order is random
	slices.SortFunc(boards, func(a, b stationDepartures) int {
		return strings.Compare(a.station.ID, b.station.ID)
	})

	dashboard.NetworkStatus.Overall = overallCondition(dashboard.Disruptions)
	dashboard.MajorDelays = majorDelays(boards)
	dashboard.NetworkStatus.Regions = regionStatuses(boards)

	return dashboard, nil
}

func overallCondition(disruptions []ctdf.Disruption) ctdf.NetworkCondition {
	active := 0
	activeHigh := 0

	for _, disruption := range disruptions {
		if !disruption.IsActive() {
			continue
		}

		active++
		if disruption.Severity == ctdf.DisruptionSeverityHigh {
			activeHigh++
		}
	}

	switch {
	case activeHigh > severeHighDisruptions:
		return ctdf.NetworkConditionSeverelyDisrupted
	case active > disruptedDisruptions:
		return ctdf.NetworkConditionDisrupted
	default:
		return ctdf.NetworkConditionGood
	}
}

func summariseStation(board stationDepartures) ctdf.StationDelaySummary {
	summary := ctdf.StationDelaySummary{
		StationID:   board.station.ID,
		StationName: board.station.Name,
		Region:      board.station.Region,
	}

	for _, departure := range board.departures {
		switch {
		case departure.Status == ctdf.DepartureStatusCancelled:
			summary.Cancelled++
		case departure.Delay > 0:
			summary.DelayedDepartures++
			summary.TotalDelay += departure.Delay
			summary.MaxDelay = max(summary.MaxDelay, departure.Delay)
		}
	}

	if summary.DelayedDepartures > 0 {
		summary.AverageDelay = summary.TotalDelay / summary.DelayedDepartures
	}

	return summary
}

// majorDelays ranks stations by accumulated delay minutes
func majorDelays(boards []stationDepartures) []ctdf.StationDelaySummary {
	summaries := []ctdf.StationDelaySummary{}

	for _, board := range boards {
		summary := summariseStation(board)
		if summary.DelayedDepartures == 0 && summary.Cancelled == 0 {
			continue
		}

		summaries = append(summaries, summary)
	}

	slices.SortStableFunc(summaries, func(a, b ctdf.StationDelaySummary) int {
		if a.TotalDelay != b.TotalDelay {
			return b.TotalDelay - a.TotalDelay
		}
		return b.Cancelled - a.Cancelled
	})

	if len(summaries) > dashboardMajorDelays {
		summaries = summaries[:dashboardMajorDelays]
	}

	return summaries
}

func regionStatuses(boards []stationDepartures) []ctdf.RegionStatus {
	regions := map[string]*ctdf.RegionStatus{}
	totalDelays := map[string]int{}

	for _, board := range boards {
		if board.station.Region == "" || len(board.departures) == 0 {
			continue
		}

		region, exists := regions[board.station.Region]
		if !exists {
			region = &ctdf.RegionStatus{Region: board.station.Region}
			regions[board.station.Region] = region
		}

		summary := summariseStation(board)

		region.Departures += len(board.departures)
		region.DelayedDepartures += summary.DelayedDepartures
		region.Cancelled += summary.Cancelled
		totalDelays[region.Region] += summary.TotalDelay
	}

	statuses := []ctdf.RegionStatus{}
	for _, region := range regions {
		if region.DelayedDepartures > 0 {
			region.AverageDelay = totalDelays[region.Region] / region.DelayedDepartures
		}

		affected := float64(region.DelayedDepartures+region.Cancelled) / float64(region.Departures)
		switch {
		case affected >= regionSevereRatio:
			region.Status = ctdf.NetworkConditionSeverelyDisrupted
		case affected >= regionDisruptedRatio:
			region.Status = ctdf.NetworkConditionDisrupted
		default:
			region.Status = ctdf.NetworkConditionGood
		}

		statuses = append(statuses, *region)
	}

	slices.SortFunc(statuses, func(a, b ctdf.RegionStatus) int {
		return strings.Compare(a.Region, b.Region)
	})

	return statuses
}
