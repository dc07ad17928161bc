package cachedresults

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type entry struct {
	data      any
	timestamp time.Time
	ttl       time.Duration
}

// Cache is the process-wide TTL store used by the aggregator. Expired entries are evicted
// lazily when looked up, there is no background sweep. An optional Shared tier lets several
// processes reuse each others results.
type Cache struct {
	Now    func() time.Time
	Shared Shared

	mutex   sync.RWMutex
	entries map[string]entry
}

type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

func New(shared Shared) *Cache {
	return &Cache{
		Now:     time.Now,
		Shared:  shared,
		entries: map[string]entry{},
	}
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}

	return c.Now()
}

// Get returns the value stored for key while now - timestamp <= ttl
func (c *Cache) Get(key string) (any, bool) {
	c.mutex.RLock()
	item, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	if c.now().Sub(item.timestamp) <= item.ttl {
		return item.data, true
	}

	c.mutex.Lock()
	// Only evict if nobody refreshed the entry since we read it
	if current, exists := c.entries[key]; exists && current.timestamp.Equal(item.timestamp) {
		delete(c.entries, key)
	}
	c.mutex.Unlock()

	return nil, false
}

func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.entries == nil {
		c.entries = map[string]entry{}
	}

	c.entries[key] = entry{
		data:      value,
		timestamp: c.now(),
		ttl:       ttl,
	}
}

func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	delete(c.entries, key)
	c.mutex.Unlock()
}

// Clear removes every entry, or only those whose key contains pattern. Returns the number of
// in-memory entries removed.
func (c *Cache) Clear(ctx context.Context, pattern string) int {
	c.mutex.Lock()
	removed := 0
	for key := range c.entries {
		if pattern == "" || strings.Contains(key, pattern) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mutex.Unlock()

	if c.Shared != nil {
		if err := c.Shared.Clear(ctx, pattern); err != nil {
			log.Error().Err(err).Str("pattern", pattern).Msg("Failed to clear shared cache")
		}
	}

	log.Debug().Str("pattern", pattern).Int("removed", removed).Msg("Cleared cached results")

	return removed
}

func (c *Cache) Stats() Stats {
	c.mutex.RLock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.mutex.RUnlock()

	slices.Sort(keys)

	return Stats{
		Size: len(keys),
		Keys: keys,
	}
}
