package redis_client

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railinfo/pkg/config"
)

// Connect opens the shared results cache connection. A nil client is returned when no address
// is configured so the caller falls back to the in-process cache only.
func Connect(ctx context.Context, redisConfig config.RedisConfig) (*redis.Client, error) {
	if !redisConfig.Enabled() {
		return nil, nil
	}

	options := &redis.Options{
		Addr: redisConfig.Address,
		DB:   redisConfig.Database,
	}
	if redisConfig.Password != "" {
		options.Password = redisConfig.Password
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", redisConfig.Address, err)
	}

	log.Info().Str("address", redisConfig.Address).Int("database", redisConfig.Database).Msg("Connected to Redis")

	return client, nil
}
