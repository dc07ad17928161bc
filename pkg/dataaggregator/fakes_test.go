package dataaggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/travigo/railinfo/pkg/dataaggregator/cachedresults"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/transportdatagouv"
)

var errUpstreamDown = errors.New("upstream down")

type fakePrimary struct {
	mutex sync.Mutex
	calls map[string]int

	stopAreas   []navitia.StopArea
	departures  map[string][]navitia.Departure
	disruptions []navitia.Disruption
	journeys    []navitia.Journey

	// hang makes departures block until the caller's context is done
	hang bool
	// gate holds disruption calls until it is closed
	gate chan struct{}

	err error
}

func (f *fakePrimary) record(call string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[call]++
}

func (f *fakePrimary) callCount(call string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.calls[call]
}

func (f *fakePrimary) GetName() string { return "fake primary" }

func (f *fakePrimary) SearchStations(ctx context.Context, query string, limit int) ([]navitia.StopArea, error) {
	f.record("stations")
	return f.stopAreas, f.err
}

func (f *fakePrimary) StationDepartures(ctx context.Context, stationID string, limit int) ([]navitia.Departure, error) {
	f.record("departures:" + stationID)
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.departures[stationID], nil
}

func (f *fakePrimary) Disruptions(ctx context.Context, limit int) ([]navitia.Disruption, error) {
	f.record("disruptions")
	if f.gate != nil {
		<-f.gate
	}
	return f.disruptions, f.err
}

func (f *fakePrimary) PlanJourney(ctx context.Context, originID string, destinationID string, dateTime time.Time) ([]navitia.Journey, error) {
	f.record("journeys")
	return f.journeys, f.err
}

type fakeRegional struct {
	datasets []transportdatagouv.Dataset
	err      error
}

func (f *fakeRegional) GetName() string { return "fake regional" }

func (f *fakeRegional) ActiveDatasets(ctx context.Context, now time.Time) ([]transportdatagouv.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}

	active := []transportdatagouv.Dataset{}
	for _, dataset := range f.datasets {
		if transportdatagouv.IsDatasetActive(dataset, now) {
			active = append(active, dataset)
		}
	}
	return active, nil
}

func (f *fakeRegional) RealtimeFeeds(ctx context.Context, now time.Time) ([]string, error) {
	return []string{}, f.err
}

type testClock struct {
	mutex sync.Mutex
	now   time.Time
}

func (c *testClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

// Paris local time, as returned by the primary API
var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, mustParis())

func mustParis() *time.Location {
	location, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
	return location
}

func navitiaTime(t time.Time) string {
	return navitia.FormatDateTime(t)
}

func newTestAggregator(primary *fakePrimary, regional *fakeRegional, options ...Option) (*Aggregator, *testClock) {
	clock := &testClock{now: testNow}

	options = append([]Option{WithClock(clock.Now)}, options...)

	var regionalSource RegionalSource
	if regional != nil {
		regionalSource = regional
	}

	return New(primary, regionalSource, cachedresults.New(nil), options...), clock
}
