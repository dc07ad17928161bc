package ctdf

import "time"

type LiveDashboardData struct {
	Strikes     []StrikeInfo          `json:"strikes" groups:"basic"`
	Disruptions []Disruption          `json:"disruptions" groups:"basic"`
	MajorDelays []StationDelaySummary `json:"majorDelays" groups:"basic"`

	NetworkStatus NetworkStatus `json:"networkStatus" groups:"basic"`

	LastUpdated time.Time `json:"lastUpdated" groups:"basic"`
}

type NetworkStatus struct {
	Overall NetworkCondition `json:"overall" groups:"basic"`
	Regions []RegionStatus   `json:"regions" groups:"basic"`
}

type RegionStatus struct {
	Region            string           `json:"region" groups:"basic"`
	Status            NetworkCondition `json:"status" groups:"basic"`
	Departures        int              `json:"departures" groups:"basic"`
	DelayedDepartures int              `json:"delayedDepartures" groups:"basic"`
	Cancelled         int              `json:"cancelled" groups:"basic"`
	AverageDelay      int              `json:"averageDelay" groups:"basic"`
}

type StationDelaySummary struct {
	StationID   string `json:"stationId" groups:"basic"`
	StationName string `json:"stationName" groups:"basic"`
	Region      string `json:"region" groups:"basic"`

	DelayedDepartures int `json:"delayedDepartures" groups:"basic"`
	Cancelled         int `json:"cancelled" groups:"basic"`
	TotalDelay        int `json:"totalDelay" groups:"basic"`
	AverageDelay      int `json:"averageDelay" groups:"basic"`
	MaxDelay          int `json:"maxDelay" groups:"basic"`
}

type NetworkCondition string

const (
	NetworkConditionGood              NetworkCondition = "good"
	NetworkConditionDisrupted         NetworkCondition = "disrupted"
	NetworkConditionSeverelyDisrupted NetworkCondition = "severely_disrupted"
)

// EmptyLiveDashboard is the well-formed value returned when nothing could be fetched
func EmptyLiveDashboard(now time.Time) LiveDashboardData {
	return LiveDashboardData{
		Strikes:     []StrikeInfo{},
		Disruptions: []Disruption{},
		MajorDelays: []StationDelaySummary{},
		NetworkStatus: NetworkStatus{
			Overall: NetworkConditionGood,
			Regions: []RegionStatus{},
		},
		LastUpdated: now,
	}
}
