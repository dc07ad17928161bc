package ctdf

import (
	"time"

	"github.com/travigo/railinfo/pkg/util"
	"golang.org/x/exp/slices"
)

type Station struct {
	ID   string `json:"id" groups:"basic"`
	Name string `json:"name" groups:"basic"`
	Slug string `json:"slug" groups:"basic"`

	Coordinates Location `json:"coordinates" groups:"basic"`

	Region     string `json:"region" groups:"basic"`
	Department string `json:"department" groups:"basic"`

	Codes *StationCodes `json:"codes,omitempty" groups:"detailed"`

	Sources     []SourceTag `json:"sources" groups:"basic"`
	HasRealtime bool        `json:"hasRealtime" groups:"basic"`

	LastUpdated time.Time `json:"lastUpdated" groups:"basic"`
}

type StationCodes struct {
	Native string `json:"native,omitempty" groups:"detailed"`
	UIC    string `json:"uic,omitempty" groups:"detailed"`
	GTFS   string `json:"gtfs,omitempty" groups:"detailed"`
}

// NewStation creates a station whose slug is derived once from its name
func NewStation(id string, name string) *Station {
	return &Station{
		ID:      id,
		Name:    name,
		Slug:    util.Slugify(name),
		Sources: []SourceTag{},
	}
}

// AddSource records provenance; tags are only ever added
func (s *Station) AddSource(tag SourceTag) {
	if !slices.Contains(s.Sources, tag) {
		s.Sources = append(s.Sources, tag)
	}
}

func (s *Station) HasSource(tag SourceTag) bool {
	return slices.Contains(s.Sources, tag)
}
