package query

import (
	"fmt"
	"net/url"
)

type Departures struct {
	StationID string
	Limit     int
}

func (d Departures) CacheKey() string {
	return fmt.Sprintf("departures:%s:%d", url.QueryEscape(d.StationID), d.Limit)
}
