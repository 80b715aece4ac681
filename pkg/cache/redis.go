package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apper-apps/scholar-array-protocol/pkg/config"
)

const (
	// KeyPrefix namespaces every aggregate this service caches.
	KeyPrefix = "scholar:"

	clientName = "scholar-array-api"
)

// NewRedis returns a Redis client for the dashboard cache. It fails when the server does not
// answer a ping within five seconds.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		ClientName: clientName,
		Password:   cfg.Password,
		DB:         cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return client, nil
}
