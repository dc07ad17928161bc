package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/cachedresults"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
)

type fakeAggregator struct {
	stationsQuery    query.Stations
	departuresQuery  query.Departures
	disruptionsQuery query.Disruptions
	journeyPlanQuery query.JourneyPlan
	clearedPattern   string

	planErr error
}

func (f *fakeAggregator) Stations(ctx context.Context, stationsQuery query.Stations) []ctdf.Station {
	f.stationsQuery = stationsQuery

	station := ctdf.NewStation("stop_area:SNCF:87271007", "Paris Nord")
	station.Codes = &ctdf.StationCodes{UIC: "87271007"}
	station.AddSource(ctdf.SourceTagPrimary)

	return []ctdf.Station{*station}
}

func (f *fakeAggregator) Departures(ctx context.Context, departuresQuery query.Departures) []ctdf.Departure {
	f.departuresQuery = departuresQuery
	return []ctdf.Departure{}
}

func (f *fakeAggregator) Disruptions(ctx context.Context, disruptionsQuery query.Disruptions) []ctdf.Disruption {
	f.disruptionsQuery = disruptionsQuery
	return []ctdf.Disruption{}
}

func (f *fakeAggregator) CurrentStrikes(ctx context.Context) []ctdf.StrikeInfo {
	return []ctdf.StrikeInfo{}
}

func (f *fakeAggregator) LiveDashboard(ctx context.Context) ctdf.LiveDashboardData {
	return ctdf.EmptyLiveDashboard(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
}

func (f *fakeAggregator) PlanJourney(ctx context.Context, journeyPlanQuery query.JourneyPlan) ([]ctdf.Itinerary, error) {
	f.journeyPlanQuery = journeyPlanQuery
	if f.planErr != nil {
		return nil, f.planErr
	}
	return []ctdf.Itinerary{}, nil
}

func (f *fakeAggregator) ClearCache(ctx context.Context, pattern string) int {
	f.clearedPattern = pattern
	return 3
}

func (f *fakeAggregator) CacheStats() cachedresults.Stats {
	return cachedresults.Stats{Size: 1, Keys: []string{"strikes"}}
}

func doRequest(t *testing.T, aggregator *fakeAggregator, method string, target string) (*http.Response, []byte) {
	t.Helper()

	app := NewApp(aggregator)

	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	resp.Body.Close()

	return resp, body
}

func TestStationsEndpoint(t *testing.T) {
	aggregator := &fakeAggregator{}

	resp, body := doRequest(t, aggregator, http.MethodGet, "/core/stations?q=nord&limit=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if cacheControl := resp.Header.Get("Cache-Control"); cacheControl != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cacheControl)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request id")
	}
	if aggregator.stationsQuery.Query != "nord" || aggregator.stationsQuery.Limit != 5 {
		t.Errorf("query = %+v", aggregator.stationsQuery)
	}

	var stations []map[string]any
	if err := json.Unmarshal(body, &stations); err != nil {
		t.Fatalf("decoding %s: %v", body, err)
	}
	if len(stations) != 1 || stations[0]["slug"] != "paris-nord" {
		t.Errorf("stations = %v", stations)
	}
	if _, exists := stations[0]["codes"]; exists {
		t.Error("detailed fields should be reduced away by default")
	}
}

func TestStationsEndpointDetailed(t *testing.T) {
	_, body := doRequest(t, &fakeAggregator{}, http.MethodGet, "/core/stations?q=nord&detailed=true")

	var stations []map[string]any
	if err := json.Unmarshal(body, &stations); err != nil {
		t.Fatalf("decoding %s: %v", body, err)
	}
	if _, exists := stations[0]["codes"]; !exists {
		t.Errorf("detailed response misses codes: %s", body)
	}
}

func TestLimitValidation(t *testing.T) {
	tests := []struct {
		target     string
		wantStatus int
		wantLimit  int
	}{
		{"/core/disruptions", http.StatusOK, 50},
		{"/core/disruptions?limit=7", http.StatusOK, 7},
		{"/core/disruptions?limit=1000", http.StatusOK, 100},
		{"/core/disruptions?limit=0", http.StatusBadRequest, 0},
		{"/core/disruptions?limit=lots", http.StatusBadRequest, 0},
	}

	for _, test := range tests {
		t.Run(test.target, func(t *testing.T) {
			aggregator := &fakeAggregator{}

			resp, body := doRequest(t, aggregator, http.MethodGet, test.target)
			if resp.StatusCode != test.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", resp.StatusCode, test.wantStatus, body)
			}
			if aggregator.disruptionsQuery.Limit != test.wantLimit {
				t.Errorf("limit = %d, want %d", aggregator.disruptionsQuery.Limit, test.wantLimit)
			}
		})
	}
}

func TestDeparturesEndpoint(t *testing.T) {
	aggregator := &fakeAggregator{}

	resp, body := doRequest(t, aggregator, http.MethodGet, "/core/stations/stop_area:SNCF:87271007/departures")
	if resp.StatusCode != http.StatusOK || string(body) != "[]" {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if resp.Header.Get("Cache-Control") != "public, max-age=30" {
		t.Errorf("Cache-Control = %q", resp.Header.Get("Cache-Control"))
	}
	if aggregator.departuresQuery.StationID != "stop_area:SNCF:87271007" || aggregator.departuresQuery.Limit != 20 {
		t.Errorf("query = %+v", aggregator.departuresQuery)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	resp, body := doRequest(t, &fakeAggregator{}, http.MethodGet, "/core/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var dashboard struct {
		Strikes       []any `json:"strikes"`
		NetworkStatus struct {
			Overall string `json:"overall"`
			Regions []any  `json:"regions"`
		} `json:"networkStatus"`
	}
	if err := json.Unmarshal(body, &dashboard); err != nil {
		t.Fatalf("decoding %s: %v", body, err)
	}
	if dashboard.NetworkStatus.Overall != "good" || dashboard.Strikes == nil || dashboard.NetworkStatus.Regions == nil {
		t.Errorf("dashboard = %s", body)
	}
}

func TestStrikesEndpoint(t *testing.T) {
	resp, body := doRequest(t, &fakeAggregator{}, http.MethodGet, "/core/strikes")
	if resp.StatusCode != http.StatusOK || string(body) != "[]" {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if resp.Header.Get("Cache-Control") != "public, max-age=900" {
		t.Errorf("Cache-Control = %q", resp.Header.Get("Cache-Control"))
	}
}

func TestPlannerEndpoint(t *testing.T) {
	aggregator := &fakeAggregator{}

	resp, _ := doRequest(t, aggregator, http.MethodGet, "/core/planner/a/b?datetime=2026-03-02T08:00:00Z")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !aggregator.journeyPlanQuery.DateTime.Equal(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("query = %+v", aggregator.journeyPlanQuery)
	}

	resp, _ = doRequest(t, aggregator, http.MethodGet, "/core/planner/a/b?datetime=tomorrow")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad datetime status = %d", resp.StatusCode)
	}

	aggregator.planErr = errors.New("upstream down")
	resp, body := doRequest(t, aggregator, http.MethodGet, "/core/planner/a/b")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("upstream failure status = %d, body %s", resp.StatusCode, body)
	}
}

func TestCacheEndpoints(t *testing.T) {
	aggregator := &fakeAggregator{}

	resp, body := doRequest(t, aggregator, http.MethodGet, "/core/cache")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Cache-Control") != "no-store" {
		t.Fatalf("status = %d, Cache-Control = %q", resp.StatusCode, resp.Header.Get("Cache-Control"))
	}

	var stats cachedresults.Stats
	if err := json.Unmarshal(body, &stats); err != nil || stats.Size != 1 {
		t.Errorf("stats = %s", body)
	}

	resp, body = doRequest(t, aggregator, http.MethodDelete, "/core/cache?pattern=departures")
	if resp.StatusCode != http.StatusOK || aggregator.clearedPattern != "departures" {
		t.Errorf("clear status = %d, pattern %q, body %s", resp.StatusCode, aggregator.clearedPattern, body)
	}
}

func TestRequestIDIsKept(t *testing.T) {
	app := NewApp(&fakeAggregator{})

	req := httptest.NewRequest(http.MethodGet, "/core/version", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("X-Request-ID") != "abc-123" {
		t.Errorf("X-Request-ID = %q", resp.Header.Get("X-Request-ID"))
	}
}
