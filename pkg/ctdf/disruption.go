package ctdf

import "time"

type Disruption struct {
	ID          string `json:"id" groups:"basic"`
	Title       string `json:"title" groups:"basic"`
	Description string `json:"description" groups:"basic"`

	Severity DisruptionSeverity `json:"severity" groups:"basic"`
	Status   DisruptionStatus   `json:"status" groups:"basic"`

	StartDate time.Time `json:"startDate" groups:"basic"`
	EndDate   time.Time `json:"endDate" groups:"basic"`

	AffectedLines    []string `json:"affectedLines" groups:"basic"`
	AffectedStations []string `json:"affectedStations" groups:"basic"`

	Category string `json:"category" groups:"detailed"`
	Cause    string `json:"cause" groups:"basic"`

	Impact DisruptionImpact `json:"impact" groups:"basic"`

	Source      SourceTag `json:"source" groups:"detailed"`
	LastUpdated time.Time `json:"lastUpdated" groups:"basic"`
}

type DisruptionImpact struct {
	Level  int    `json:"level" groups:"basic"`
	Effect string `json:"effect" groups:"basic"`
}

type DisruptionSeverity string

const (
	DisruptionSeverityHigh   DisruptionSeverity = "high"
	DisruptionSeverityMedium DisruptionSeverity = "medium"
	DisruptionSeverityLow    DisruptionSeverity = "low"
	DisruptionSeverityInfo   DisruptionSeverity = "info"
)

type DisruptionStatus string

const (
	DisruptionStatusActive  DisruptionStatus = "active"
	DisruptionStatusEnded   DisruptionStatus = "ended"
	DisruptionStatusPlanned DisruptionStatus = "planned"
)

type ApplicationPeriod struct {
	Begin time.Time
	End   time.Time
}

func (p ApplicationPeriod) Contains(checkTime time.Time) bool {
	return !checkTime.Before(p.Begin) && !checkTime.After(p.End)
}

// ComputeDisruptionStatus is active when checkTime falls inside any period, planned when a
// period is still to come and ended otherwise
func ComputeDisruptionStatus(periods []ApplicationPeriod, checkTime time.Time) DisruptionStatus {
	upcoming := false

	for _, period := range periods {
		if period.Contains(checkTime) {
			return DisruptionStatusActive
		}

		if period.Begin.After(checkTime) {
			upcoming = true
		}
	}

	if upcoming {
		return DisruptionStatusPlanned
	}

	return DisruptionStatusEnded
}

func (d *Disruption) IsActive() bool {
	return d.Status == DisruptionStatusActive
}
