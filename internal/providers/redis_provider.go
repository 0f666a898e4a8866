package providers

import (
	"context"
	"fmt"
	"time"

	"ctad/internal/structures"
	"github.com/redis/go-redis/v9"
)

// NewRedisProvider connects to the key-value store backing the CTA,
// behaviour-tag and snapshot repositories. Boot fails when the store is
// unreachable.
func NewRedisProvider(conf *structures.Config, logger Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed for %s: %w", conf.Redis.Addr, err)
	}

	logger.Infof(TypeApp, "Connected to redis at %s", conf.Redis.Addr)
	return client, nil
}
