package ctdf

import "time"

type Itinerary struct {
	DepartureTime time.Time     `json:"departureTime" groups:"basic"`
	ArrivalTime   time.Time     `json:"arrivalTime" groups:"basic"`
	Duration      time.Duration `json:"duration" groups:"basic"`
	Transfers     int           `json:"transfers" groups:"basic"`
	Status        string        `json:"status" groups:"detailed"`

	Sections []ItinerarySection `json:"sections" groups:"basic"`
}

type ItinerarySection struct {
	Type string `json:"type" groups:"basic"`

	From string `json:"from" groups:"basic"`
	To   string `json:"to" groups:"basic"`

	Line *Line `json:"line,omitempty" groups:"basic"`

	DepartureTime time.Time `json:"departureTime" groups:"basic"`
	ArrivalTime   time.Time `json:"arrivalTime" groups:"basic"`
}
