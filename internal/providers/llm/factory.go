package llm

import (
	"context"
	"fmt"

	"github.com/gridscope/gridscope/internal/config"
	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/log"
)

// NewProvider creates the appropriate AIProvider based on configuration.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.LLMProvider).
		Msg("starting llm provider")

	switch cfg.LLMProvider {
	case "gemini":
		geminiCfg := config.NewGeminiConfig(ctx)
		return NewGemini(geminiCfg.BaseURL, geminiCfg.APIKey, geminiCfg.Model, geminiCfg.VisionModel), nil
	case "openai":
		openaiCfg := config.NewOpenAIConfig(ctx)
		return NewOpenAICompatible(openaiCfg.BaseURL, openaiCfg.APIKey, openaiCfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
