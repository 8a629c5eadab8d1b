package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/gridscope/gridscope/pkg/log"
)

type AppConfig struct {
	DataPath string `env:"GRIDSCOPE_DATA_PATH" envDefault:".gridscope"`
	// Allow selecting the provider
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"gemini"`

	// Default matchup used until the scoreboard is read off a frame
	HomeTeam string `env:"HOME_TEAM" envDefault:"KC"`
	AwayTeam string `env:"AWAY_TEAM" envDefault:"PHI"`

	// Analysis
	ConfidenceThreshold float64 `env:"CONFIDENCE_THRESHOLD" envDefault:"0.5"`

	// Context store bounds
	ContextMaxItems             int `env:"CONTEXT_MAX_ITEMS" envDefault:"500"`
	ContextCompressionThreshold int `env:"CONTEXT_COMPRESSION_THRESHOLD" envDefault:"100"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.DataPath, "gridscope.db")
}
