package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/gridscope/gridscope/pkg/log"
)

type VeoConfig struct {
	APIKey  string `env:"VEO_API_KEY,required,notEmpty"`
	ModelID string `env:"VEO_MODEL_ID" envDefault:"fal-ai/veo3.1/reference-to-video"`
	BaseURL string `env:"VEO_BASE_URL" envDefault:"https://fal.run"`
}

func NewVeoConfig(ctx context.Context) *VeoConfig {
	c := &VeoConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Veo config")
	}
	return c
}
