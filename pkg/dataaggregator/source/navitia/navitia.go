package navitia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/travigo/railinfo/pkg/dataaggregator/source"
)

const DefaultBaseURL = "https://api.sncf.com/v1/coverage/sncf"

type Source struct {
	BaseURL   string
	Requester *source.Requester
}

func New(baseURL string, token string, httpClient *http.Client, maxRetries uint64) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Source{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Requester: &source.Requester{
			Name:       "navitia",
			HTTPClient: httpClient,
			UserAgent:  "railinfo/1.0",
			MaxRetries: maxRetries,
			Authorise: func(req *http.Request) {
				// Token is passed as the basic auth username with no password
				req.SetBasicAuth(token, "")
			},
		},
	}
}

func (s *Source) GetName() string {
	return "Navitia journey planner"
}

func (s *Source) url(path string, params url.Values) string {
	if len(params) == 0 {
		return fmt.Sprintf("%s/%s", s.BaseURL, path)
	}

	return fmt.Sprintf("%s/%s?%s", s.BaseURL, path, params.Encode())
}

func (s *Source) SearchStations(ctx context.Context, query string, limit int) ([]StopArea, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type[]", "stop_area")
	params.Set("count", strconv.Itoa(limit))

	response, err := source.GetJSON[placesResponse](ctx, s.Requester, s.url("places", params))
	if err != nil {
		return nil, err
	}

	stopAreas := []StopArea{}
	for _, place := range source.DecodeRecords[Place](s.Requester.Name, "place", response.Places) {
		if place.StopArea == nil {
			continue
		}

		stopArea := *place.StopArea
		if stopArea.ID == "" {
			stopArea.ID = place.ID
		}
		if stopArea.Name == "" {
			stopArea.Name = place.Name
		}

		stopAreas = append(stopAreas, stopArea)
	}

	return stopAreas, nil
}

// StationDepartures returns the next departures with the disruptions each one links to attached
func (s *Source) StationDepartures(ctx context.Context, stationID string, limit int) ([]Departure, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(limit))
	params.Set("data_freshness", "realtime")

	path := fmt.Sprintf("stop_areas/%s/departures", url.PathEscape(stationID))

	response, err := source.GetJSON[departuresResponse](ctx, s.Requester, s.url(path, params))
	if err != nil {
		return nil, err
	}

	disruptionsByID := map[string]Disruption{}
	for _, disruption := range source.DecodeRecords[Disruption](s.Requester.Name, "disruption", response.Disruptions) {
		disruptionsByID[disruption.ID] = disruption
	}

	departures := source.DecodeRecords[Departure](s.Requester.Name, "departure", response.Departures)
	for i := range departures {
		departure := &departures[i]

		for _, link := range departure.DisplayInformations.Links {
			if link.Type != "disruption" {
				continue
			}

			if disruption, exists := disruptionsByID[link.ID]; exists {
				departure.Disruptions = append(departure.Disruptions, disruption)
			}
		}
	}

	return departures, nil
}

func (s *Source) Disruptions(ctx context.Context, limit int) ([]Disruption, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(limit))

	response, err := source.GetJSON[disruptionsResponse](ctx, s.Requester, s.url("disruptions", params))
	if err != nil {
		return nil, err
	}

	return source.DecodeRecords[Disruption](s.Requester.Name, "disruption", response.Disruptions), nil
}

func (s *Source) PlanJourney(ctx context.Context, originID string, destinationID string, dateTime time.Time) ([]Journey, error) {
	params := url.Values{}
	params.Set("from", originID)
	params.Set("to", destinationID)
	if !dateTime.IsZero() {
		params.Set("datetime", FormatDateTime(dateTime))
	}

	response, err := source.GetJSON[journeysResponse](ctx, s.Requester, s.url("journeys", params))
	if err != nil {
		return nil, err
	}

	return source.DecodeRecords[Journey](s.Requester.Name, "journey", response.Journeys), nil
}
