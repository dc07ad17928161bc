package dataaggregator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
)

func departureWithDelay(delay time.Duration) navitia.Departure {
	scheduled := testNow.Add(10 * time.Minute)

	return navitia.Departure{StopDateTime: navitia.StopDateTime{
		BaseDepartureDateTime: navitiaTime(scheduled),
		DepartureDateTime:     navitiaTime(scheduled.Add(delay)),
	}}
}

func TestOverallCondition(t *testing.T) {
	build := func(active int, activeHigh int) []ctdf.Disruption {
		disruptions := []ctdf.Disruption{}
		for i := 0; i < active; i++ {
			severity := ctdf.DisruptionSeverityLow
			if i < activeHigh {
				severity = ctdf.DisruptionSeverityHigh
			}
			disruptions = append(disruptions, ctdf.Disruption{ID: fmt.Sprint(i), Severity: severity, Status: ctdf.DisruptionStatusActive})
		}
		// Ended disruptions never count
		disruptions = append(disruptions, ctdf.Disruption{Severity: ctdf.DisruptionSeverityHigh, Status: ctdf.DisruptionStatusEnded})
		return disruptions
	}

	tests := []struct {
		name       string
		active     int
		activeHigh int
		want       ctdf.NetworkCondition
	}{
		{"quiet", 2, 1, ctdf.NetworkConditionGood},
		{"five high is not enough", 5, 5, ctdf.NetworkConditionGood},
		{"six high", 6, 6, ctdf.NetworkConditionSeverelyDisrupted},
		{"ten active is not enough", 10, 0, ctdf.NetworkConditionGood},
		{"eleven active", 11, 2, ctdf.NetworkConditionDisrupted},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := overallCondition(build(test.active, test.activeHigh)); got != test.want {
				t.Errorf("overallCondition() = %s, want %s", got, test.want)
			}
		})
	}
}

func TestLiveDashboard(t *testing.T) {
	disruptions := []navitia.Disruption{}
	for i := 0; i < 6; i++ {
		disruptions = append(disruptions, navitia.Disruption{
			ID:                 fmt.Sprintf("d%d", i),
			Severity:           navitia.Severity{Effect: "NO_SERVICE"},
			ApplicationPeriods: activePeriod(),
		})
	}

	primary := &fakePrimary{
		disruptions: disruptions,
		departures: map[string][]navitia.Departure{
			"paris":  {departureWithDelay(0), departureWithDelay(15 * time.Minute), departureWithDelay(5 * time.Minute)},
			"lyon":   {departureWithDelay(0), departureWithDelay(0), departureWithDelay(0), departureWithDelay(0), departureWithDelay(30 * time.Minute)},
			"rennes": {departureWithDelay(0)},
		},
	}
	aggregator, _ := newTestAggregator(primary, nil, WithDashboardStations([]DashboardStation{
		{ID: "paris", Name: "Paris Gare de Lyon", Region: "Île-de-France"},
		{ID: "lyon", Name: "Lyon Part-Dieu", Region: "Auvergne-Rhône-Alpes"},
		{ID: "rennes", Name: "Rennes", Region: "Bretagne"},
	}))

	dashboard := aggregator.LiveDashboard(context.Background())

	if dashboard.NetworkStatus.Overall != ctdf.NetworkConditionSeverelyDisrupted {
		t.Errorf("overall = %s", dashboard.NetworkStatus.Overall)
	}
	if len(dashboard.Disruptions) != 6 {
		t.Errorf("got %d disruptions, want 6", len(dashboard.Disruptions))
	}

	if len(dashboard.MajorDelays) != 2 {
		t.Fatalf("major delays = %+v", dashboard.MajorDelays)
	}
	if dashboard.MajorDelays[0].StationID != "lyon" || dashboard.MajorDelays[0].TotalDelay != 30 {
		t.Errorf("first major delay = %+v", dashboard.MajorDelays[0])
	}
	paris := dashboard.MajorDelays[1]
	if paris.DelayedDepartures != 2 || paris.TotalDelay != 20 || paris.AverageDelay != 10 || paris.MaxDelay != 15 {
		t.Errorf("paris summary = %+v", paris)
	}

	regions := dashboard.NetworkStatus.Regions
	if len(regions) != 3 {
		t.Fatalf("regions = %+v", regions)
	}

	want := map[string]ctdf.NetworkCondition{
		"Auvergne-Rhône-Alpes": ctdf.NetworkConditionDisrupted,
		"Bretagne":             ctdf.NetworkConditionGood,
		"Île-de-France":        ctdf.NetworkConditionSeverelyDisrupted,
	}
	for _, region := range regions {
		if region.Status != want[region.Region] {
			t.Errorf("region %s status = %s, want %s", region.Region, region.Status, want[region.Region])
		}
	}
}

func TestLiveDashboardIsCached(t *testing.T) {
	primary := &fakePrimary{}
	aggregator, clock := newTestAggregator(primary, nil)
	ctx := context.Background()

	aggregator.LiveDashboard(ctx)
	aggregator.LiveDashboard(ctx)

	if calls := primary.callCount("disruptions"); calls != 2 {
		t.Errorf("disruptions fetched %d times, want 2 (strikes and dashboard limits)", calls)
	}

	clock.Advance(31 * time.Second)
	aggregator.LiveDashboard(ctx)

	// The disruptions themselves are still fresh
	if calls := primary.callCount("disruptions"); calls != 2 {
		t.Errorf("disruptions fetched %d times, want 2", calls)
	}
}
