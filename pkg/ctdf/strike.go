package ctdf

import "time"

type StrikeInfo struct {
	ID          string `json:"id" groups:"basic"`
	Title       string `json:"title" groups:"basic"`
	Description string `json:"description" groups:"basic"`
	Cause       string `json:"cause" groups:"basic"`

	Status DisruptionStatus `json:"status" groups:"basic"`

	StartDate time.Time `json:"startDate" groups:"basic"`
	EndDate   time.Time `json:"endDate" groups:"basic"`

	AffectedLines    []string `json:"affectedLines" groups:"basic"`
	AffectedStations []string `json:"affectedStations" groups:"basic"`

	ExpectedImpact StrikeImpact `json:"expectedImpact" groups:"basic"`
	Alternatives   []string     `json:"alternatives" groups:"basic"`

	Source      SourceTag `json:"source" groups:"detailed"`
	LastUpdated time.Time `json:"lastUpdated" groups:"basic"`
}

// StrikeImpact is the expected service reduction, in percent
type StrikeImpact struct {
	National int `json:"national" groups:"basic"`
	Regional int `json:"regional" groups:"basic"`
	Local    int `json:"local" groups:"basic"`
}

var DefaultStrikeImpact = StrikeImpact{
	National: 60,
	Regional: 40,
	Local:    20,
}

var DefaultStrikeAlternatives = []string{
	"Covoiturage",
	"Bus et cars régionaux",
	"Vélo ou trottinette en libre-service",
	"Télétravail lorsque c'est possible",
}
