package ctdf

import (
	"math"
	"time"

	"golang.org/x/exp/slices"
)

type Departure struct {
	Line Line `json:"line" groups:"basic"`

	Direction   string `json:"direction" groups:"basic"`
	Destination string `json:"destination" groups:"basic"`
	Platform    string `json:"platform" groups:"basic"`

	ScheduledTime time.Time `json:"scheduledTime" groups:"basic"`
	ActualTime    time.Time `json:"actualTime" groups:"basic"`
	Delay         int       `json:"delay" groups:"basic"`

	Status DepartureStatus `json:"status" groups:"basic"`
	Source SourceTag       `json:"source" groups:"detailed"`

	Disruptions   []string      `json:"disruptions" groups:"basic"`
	Accessibility Accessibility `json:"accessibility" groups:"detailed"`
}

type Line struct {
	ID             string      `json:"id" groups:"basic"`
	Name           string      `json:"name" groups:"basic"`
	Code           string      `json:"code" groups:"basic"`
	Color          string      `json:"color" groups:"basic"`
	PhysicalMode   string      `json:"physicalMode" groups:"detailed"`
	CommercialMode string      `json:"commercialMode" groups:"basic"`
	ServiceType    ServiceType `json:"serviceType" groups:"basic"`
}

type Accessibility struct {
	Wheelchair bool `json:"wheelchair" groups:"detailed"`
	Audio      bool `json:"audio" groups:"detailed"`
	Visual     bool `json:"visual" groups:"detailed"`
}

type DepartureStatus string

const (
	DepartureStatusOnTime    DepartureStatus = "on_time"
	DepartureStatusDelayed   DepartureStatus = "delayed"
	DepartureStatusCancelled DepartureStatus = "cancelled"
	DepartureStatusUnknown   DepartureStatus = "unknown"
)

// DisruptionHint is an upstream effect attached to a single departure
type DisruptionHint string

const (
	DisruptionHintNoService         DisruptionHint = "NO_SERVICE"
	DisruptionHintSignificantDelays DisruptionHint = "SIGNIFICANT_DELAYS"
)

// ComputeDelayMinutes returns the whole minutes actual is behind scheduled, never negative
func ComputeDelayMinutes(scheduled time.Time, actual time.Time) int {
	if scheduled.IsZero() || actual.IsZero() || !actual.After(scheduled) {
		return 0
	}

	return int(math.Round(actual.Sub(scheduled).Minutes()))
}

// ComputeStatus derives the departure status. An explicit "no service" hint always wins,
// a "significant delays" hint without a measured delay is reported as unknown.
func ComputeStatus(delayMinutes int, hints []DisruptionHint) DepartureStatus {
	if slices.Contains(hints, DisruptionHintNoService) {
		return DepartureStatusCancelled
	}

	if delayMinutes > 0 {
		return DepartureStatusDelayed
	}

	if slices.Contains(hints, DisruptionHintSignificantDelays) {
		return DepartureStatusUnknown
	}

	return DepartureStatusOnTime
}

// SortDeparturesByActualTime orders the board ascending, keeping upstream order for equal times
func SortDeparturesByActualTime(departures []Departure) {
	slices.SortStableFunc(departures, func(a, b Departure) int {
		return a.ActualTime.Compare(b.ActualTime)
	})
}
