package navitia

import (
	"time"
	_ "time/tzdata"
)

const dateTimeLayout = "20060102T150405"

var location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}

	return loc
}

// ParseDateTime reads the compact local date-time format used throughout the API
func ParseDateTime(value string) (time.Time, error) {
	return time.ParseInLocation(dateTimeLayout, value, location)
}

func FormatDateTime(value time.Time) string {
	return value.In(location).Format(dateTimeLayout)
}
