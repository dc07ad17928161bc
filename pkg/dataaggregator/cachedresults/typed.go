package cachedresults

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Get looks key up in memory, then in the shared tier. A value of the wrong type or a shared
// entry that no longer decodes counts as a miss and is evicted.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var empty T

	if c == nil {
		return empty, false
	}

	if value, exists := c.Get(key); exists {
		if typed, ok := value.(T); ok {
			return typed, true
		}

		log.Warn().Str("key", key).Msg("Cached result has unexpected type, evicting")
		c.Delete(key)
	}

	if c.Shared == nil {
		return empty, false
	}

	encoded, remaining, err := c.Shared.Get(ctx, key)
	if err != nil || encoded == "" {
		return empty, false
	}

	var decoded T
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Shared cached result is corrupt, evicting")

		if err := c.Shared.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to evict corrupt shared cached result")
		}

		return empty, false
	}

	if remaining > 0 {
		c.Set(key, decoded, remaining)
	}

	return decoded, true
}

// Set stores value in memory and, when configured, in the shared tier with the same ttl
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) {
	if c == nil {
		return
	}

	c.Set(key, value, ttl)

	if c.Shared == nil {
		return
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to encode result for shared cache")
		return
	}

	if err := c.Shared.Set(ctx, key, string(encoded), ttl); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to store result in shared cache")
	}
}
