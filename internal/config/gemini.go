package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/gridscope/gridscope/pkg/log"
)

type GeminiConfig struct {
	APIKey      string `env:"GEMINI_API_KEY,required,notEmpty"`
	Model       string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	VisionModel string `env:"GEMINI_VISION_MODEL" envDefault:"gemini-2.5-flash"`
	BaseURL     string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
}

func NewGeminiConfig(ctx context.Context) *GeminiConfig {
	c := &GeminiConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gemini config")
	}
	return c
}
