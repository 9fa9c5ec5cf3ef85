package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glowcare/clinic-backend/config"
)

// NewClient connects to redis when an address is configured. A missing or
// unreachable redis is not fatal: the caller gets nil and serves from the
// database.
func NewClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		cfg.Logger.Printf("redis unreachable at %s, caching disabled: %v", cfg.RedisAddr, err)
		return nil
	}
	cfg.Logger.Println("connected to redis")
	return client
}
