package transportdatagouv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/travigo/railinfo/pkg/dataaggregator/source"
)

const DefaultBaseURL = "https://transport.data.gouv.fr/api"

type Source struct {
	BaseURL   string
	Requester *source.Requester
}

func New(baseURL string, httpClient *http.Client, maxRetries uint64) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Source{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Requester: &source.Requester{
			Name:       "transport.data.gouv.fr",
			HTTPClient: httpClient,
			UserAgent:  "railinfo/1.0",
			MaxRetries: maxRetries,
		},
	}
}

func (s *Source) GetName() string {
	return "transport.data.gouv.fr catalog"
}

// Datasets lists the catalog, optionally restricted to a region and/or departement name
func (s *Source) Datasets(ctx context.Context, region string, departement string) ([]Dataset, error) {
	params := url.Values{}
	if region != "" {
		params.Set("region", region)
	}
	if departement != "" {
		params.Set("departement", departement)
	}

	datasetsURL := s.BaseURL + "/datasets"
	if len(params) > 0 {
		datasetsURL += "?" + params.Encode()
	}

	records, err := source.GetJSON[[]json.RawMessage](ctx, s.Requester, datasetsURL)
	if err != nil {
		return nil, err
	}

	return source.DecodeRecords[Dataset](s.Requester.Name, "dataset", records), nil
}

// ActiveDatasets is Datasets filtered with IsDatasetActive
func (s *Source) ActiveDatasets(ctx context.Context, now time.Time) ([]Dataset, error) {
	datasets, err := s.Datasets(ctx, "", "")
	if err != nil {
		return nil, err
	}

	active := []Dataset{}
	for _, dataset := range datasets {
		if IsDatasetActive(dataset, now) {
			active = append(active, dataset)
		}
	}

	return active, nil
}

// RealtimeFeeds returns the GTFS-RT feed URLs advertised by active datasets
func (s *Source) RealtimeFeeds(ctx context.Context, now time.Time) ([]string, error) {
	datasets, err := s.ActiveDatasets(ctx, now)
	if err != nil {
		return nil, err
	}

	feeds := []string{}
	seen := map[string]bool{}
	for _, dataset := range datasets {
		if !dataset.HasRealtime && !dataset.HasGTFSRT {
			continue
		}

		for _, feed := range dataset.GTFSRTFeeds {
			if feed == "" || seen[string(feed)] {
				continue
			}
			seen[string(feed)] = true
			feeds = append(feeds, string(feed))
		}
	}

	return feeds, nil
}

// IsDatasetActive is true for unarchived datasets whose validity ends after now.
// A dataset without a readable end date is not considered active.
func IsDatasetActive(dataset Dataset, now time.Time) bool {
	if dataset.ArchivedAt != nil {
		return false
	}
	if dataset.ValidityPeriod == nil {
		return false
	}

	endDate, ok := parseDate(dataset.ValidityPeriod.EndDate)
	if !ok {
		return false
	}

	return endDate.After(now)
}

func QualityScore(dataset Dataset) float64 {
	if dataset.Quality == nil {
		return 0
	}

	return dataset.Quality.Score
}
