package transportdatagouv

import (
	"encoding/json"
	"time"
)

type Dataset struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`

	Region      *NamedArea `json:"region,omitempty"`
	Departement *NamedArea `json:"departement,omitempty"`

	Quality        *Quality        `json:"quality,omitempty"`
	ValidityPeriod *ValidityPeriod `json:"validity_period,omitempty"`
	ArchivedAt     *string         `json:"archived_at"`

	HasRealtime bool      `json:"has_realtime"`
	HasGTFSRT   bool      `json:"has_gtfs_rt"`
	GTFSRTFeeds []FeedURL `json:"gtfs_rt_feeds,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

func (d *Dataset) RegionName() string {
	if d.Region == nil {
		return ""
	}
	return d.Region.Nom
}

func (d *Dataset) DepartementName() string {
	if d.Departement == nil {
		return ""
	}
	return d.Departement.Nom
}

type NamedArea struct {
	Nom   string `json:"nom"`
	Insee string `json:"insee,omitempty"`
}

type Quality struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
}

type ValidityPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// FeedURL is listed either as a bare URL or as an object carrying a url field
type FeedURL string

func (f *FeedURL) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*f = FeedURL(raw)
		return nil
	}

	var object struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		*f = ""
		return nil
	}

	*f = FeedURL(object.URL)
	return nil
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, true
	}

	return time.Time{}, false
}
