package query

import (
	"fmt"
	"net/url"
	"time"
)

type JourneyPlan struct {
	Origin      string
	Destination string

	// Zero means leave now
	DateTime time.Time
}

func (j JourneyPlan) CacheKey() string {
	when := "now"
	if !j.DateTime.IsZero() {
		when = j.DateTime.UTC().Format(time.RFC3339)
	}

	return fmt.Sprintf("journeyplan:%s:%s:%s", url.QueryEscape(j.Origin), url.QueryEscape(j.Destination), when)
}
