package query

import "fmt"

type Disruptions struct {
	Limit int
}

func (d Disruptions) CacheKey() string {
	return fmt.Sprintf("disruptions:%d", d.Limit)
}

const (
	StrikesCacheKey   = "strikes"
	DashboardCacheKey = "dashboard"
)
