package cachedresults

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

const sharedKeyPrefix = "railinfo/cachedresults/"

// Shared is a cache tier reachable by every instance of the service
type Shared interface {
	Get(ctx context.Context, key string) (string, time.Duration, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error
}

type RedisShared struct {
	Cache  *cache.Cache[string]
	Client *redis.Client
}

func NewRedisShared(client *redis.Client) *RedisShared {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(90*time.Minute))

	return &RedisShared{
		Cache:  cache.New[string](redisStore),
		Client: client,
	}
}

func (r *RedisShared) Get(ctx context.Context, key string) (string, time.Duration, error) {
	return r.Cache.GetWithTTL(ctx, sharedKeyPrefix+key)
}

func (r *RedisShared) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.Cache.Set(ctx, sharedKeyPrefix+key, value, store.WithExpiration(ttl))
}

func (r *RedisShared) Delete(ctx context.Context, key string) error {
	return r.Cache.Delete(ctx, sharedKeyPrefix+key)
}

// Clear deletes the shared keys containing pattern, only ever touching our own key prefix
func (r *RedisShared) Clear(ctx context.Context, pattern string) error {
	match := fmt.Sprintf("%s*%s*", sharedKeyPrefix, escapeGlob(pattern))

	var keys []string
	iter := r.Client.Scan(ctx, 0, match, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	return r.Client.Del(ctx, keys...).Err()
}

func escapeGlob(pattern string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

	return replacer.Replace(pattern)
}
