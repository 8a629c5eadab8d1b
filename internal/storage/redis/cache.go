// Package redis provides an optional response cache. When no REDIS_URL is
// configured the cache degrades to no-ops so the server runs without it.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridscope/gridscope/internal/config"
	"github.com/gridscope/gridscope/pkg/log"
)

type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
}

func NewCache(ctx context.Context, cfg *config.RedisConfig) *Cache {
	logger := log.FromCtx(ctx)

	if cfg.URL == "" {
		logger.Info().Msg("redis not configured, caching disabled")
		return &Cache{enabled: false, ttl: cfg.CacheTTL}
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to parse redis url, caching disabled")
		return &Cache{enabled: false, ttl: cfg.CacheTTL}
	}

	opt.PoolSize = 5
	opt.MinIdleConns = 1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, caching disabled")
		return &Cache{enabled: false, ttl: cfg.CacheTTL}
	}

	logger.Info().Msg("redis connected")
	return &Cache{client: client, ttl: cfg.CacheTTL, enabled: true}
}

func (c *Cache) Enabled() bool {
	return c.enabled
}

// Get returns the cached value, or "" when absent or caching is disabled.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if !c.enabled {
		return "", nil
	}
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Set stores a value under the configured TTL.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	if !c.enabled {
		return nil
	}
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() error {
	if !c.enabled {
		return nil
	}
	return c.client.Close()
}
