package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/gridscope/gridscope/internal/config"
	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/internal/providers/llm"
	"github.com/gridscope/gridscope/internal/providers/veo"
	"github.com/gridscope/gridscope/internal/service/analyzer"
	"github.com/gridscope/gridscope/internal/service/match"
	"github.com/gridscope/gridscope/internal/service/ragstore"
	"github.com/gridscope/gridscope/internal/service/research"
	"github.com/gridscope/gridscope/internal/service/state"
	"github.com/gridscope/gridscope/internal/service/tactics"
	"github.com/gridscope/gridscope/internal/storage/redis"
	"github.com/gridscope/gridscope/internal/storage/sqlite"
	api "github.com/gridscope/gridscope/internal/transport/http"
	"github.com/gridscope/gridscope/pkg/log"
	"github.com/gridscope/gridscope/pkg/srv"
)

// eventFanout feeds analyzed events into both context stores.
type eventFanout struct {
	research *research.Service
	tactics  *tactics.Service
}

func (f *eventFanout) AddLiveEvent(ctx context.Context, event core.StoredEvent) error {
	if err := f.research.AddLiveEvent(ctx, event); err != nil {
		return err
	}
	return f.tactics.AddGameEvent(ctx, event)
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("no .env file found, using environment")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	serverCfg := config.NewServerConfig(ctx)
	redisCfg := config.NewRedisConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	matches := match.NewService(
		sqlite.NewMatchesRepo(db),
		sqlite.NewEventsRepo(db),
		sqlite.NewHighlightsRepo(db),
		sqlite.NewMetricsRepo(db),
		sqlite.NewSnapshotsRepo(db),
	)

	cache := redis.NewCache(ctx, redisCfg)
	services = append(services, srv.NewCleanup(cache.Close))

	// 3. AI Provider
	aiProvider, err := llm.NewProvider(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Game state and context services
	st := state.NewManager(appCfg.HomeTeam, appCfg.AwayTeam)

	storeCfg := ragstore.Config{
		MaxItems:             appCfg.ContextMaxItems,
		CompressionThreshold: appCfg.ContextCompressionThreshold,
	}
	researchSvc := research.NewService(aiProvider, storeCfg)
	tacticsSvc := tactics.NewService(aiProvider, storeCfg)

	frames := analyzer.New(
		aiProvider,
		matches,
		&eventFanout{research: researchSvc, tactics: tacticsSvc},
		st,
		appCfg.ConfidenceThreshold,
	)

	// 5. Video generation, optional
	var video core.VideoGenerator
	if os.Getenv("VEO_API_KEY") != "" {
		veoCfg := config.NewVeoConfig(ctx)
		video = veo.NewClient(veoCfg.BaseURL, veoCfg.APIKey, veoCfg.ModelID)
	} else {
		logger.Info().Msg("VEO_API_KEY not set, video generation disabled")
	}

	// 6. API server
	server := api.NewServer(serverCfg, appCfg, api.Deps{
		State:    st,
		Matches:  matches,
		Frames:   frames,
		Research: researchSvc,
		Tactics:  tacticsSvc,
		Video:    video,
		Cache:    cache,
	})
	services = append(services, server)

	return services
}
