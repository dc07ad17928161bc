package query

import (
	"fmt"
	"net/url"
)

type Stations struct {
	Query string
	Limit int
}

func (s Stations) CacheKey() string {
	return fmt.Sprintf("stations:%s:%d", url.QueryEscape(s.Query), s.Limit)
}
