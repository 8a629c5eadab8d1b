package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gridscope/gridscope/pkg/log"
)

// RedisConfig is optional; an empty URL disables the cache entirely.
type RedisConfig struct {
	URL      string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"30s"`
}

func NewRedisConfig(ctx context.Context) *RedisConfig {
	c := &RedisConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Redis config")
	}
	return c
}
