// Package http exposes the GridScope API: REST routes for match management,
// frame analysis, research and tactics, plus a websocket feed of game state.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gridscope/gridscope/internal/analytics"
	"github.com/gridscope/gridscope/internal/config"
	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/internal/service/analyzer"
	"github.com/gridscope/gridscope/internal/service/match"
	"github.com/gridscope/gridscope/internal/service/research"
	"github.com/gridscope/gridscope/internal/service/state"
	"github.com/gridscope/gridscope/internal/service/tactics"
	"github.com/gridscope/gridscope/pkg/log"
)

// Cache is the response cache behind /live_stats. *redis.Cache satisfies it.
type Cache interface {
	Enabled() bool
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Deps are the services the API serves.
type Deps struct {
	State    *state.Manager
	Matches  *match.Service
	Frames   *analyzer.FrameAnalyzer
	Research *research.Service
	Tactics  *tactics.Service
	Video    core.VideoGenerator
	Cache    Cache
}

type Server struct {
	cfg     *config.ServerConfig
	app     *config.AppConfig
	httpSrv *http.Server
	hub     *Hub

	state    *state.Manager
	matches  *match.Service
	frames   *analyzer.FrameAnalyzer
	research *research.Service
	tactics  *tactics.Service
	video    core.VideoGenerator
	cache    Cache

	winProb analytics.WinProbability
	epa     analytics.EPACalculator

	baseCtx context.Context
	started time.Time
}

func NewServer(cfg *config.ServerConfig, app *config.AppConfig, deps Deps) *Server {
	s := &Server{
		cfg:      cfg,
		app:      app,
		hub:      NewHub(),
		state:    deps.State,
		matches:  deps.Matches,
		frames:   deps.Frames,
		research: deps.Research,
		tactics:  deps.Tactics,
		video:    deps.Video,
		cache:    deps.Cache,
	}

	s.httpSrv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.withLogger(s.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleHealthDetailed)

	mux.HandleFunc("GET /game_state", s.handleGameState)
	mux.HandleFunc("GET /live_stats", s.handleLiveStats)
	mux.HandleFunc("POST /game_state/score", s.handleUpdateScore)
	mux.HandleFunc("POST /game_state/clock", s.handleUpdateClock)
	mux.HandleFunc("POST /game_state/possession", s.handleUpdatePossession)
	mux.HandleFunc("POST /game_state/reset", s.handleResetGameState)
	mux.HandleFunc("GET /analytics/epa", s.handleEPA)
	mux.HandleFunc("GET /analytics/win_probability", s.handleWinProbability)

	mux.HandleFunc("POST /video/analyze_frame", s.handleAnalyzeFrame)
	mux.HandleFunc("POST /video/generate_video", s.handleGenerateVideo)

	mux.HandleFunc("POST /match/start", s.handleMatchStart)
	mux.HandleFunc("POST /match/restart", s.handleMatchRestart)
	mux.HandleFunc("GET /match/current", s.handleMatchCurrent)
	mux.HandleFunc("GET /match/current/full", s.handleMatchCurrentFull)
	mux.HandleFunc("POST /match/current/event", s.handleMatchAddEvent)
	mux.HandleFunc("POST /match/current/highlight", s.handleMatchAddHighlight)
	mux.HandleFunc("GET /match/current/events", s.handleMatchEvents)
	mux.HandleFunc("GET /match/current/highlights", s.handleMatchHighlights)
	mux.HandleFunc("GET /match/current/metrics", s.handleMatchMetrics)
	mux.HandleFunc("POST /match/end/{id}", s.handleMatchEnd)
	mux.HandleFunc("GET /match/history", s.handleMatchHistory)
	mux.HandleFunc("GET /match/{id}", s.handleMatchByID)
	mux.HandleFunc("GET /match/{id}/full", s.handleMatchFullByID)
	mux.HandleFunc("POST /match/{id}/simulation/snapshot", s.handleAddSnapshot)
	mux.HandleFunc("GET /match/{id}/simulation/snapshots", s.handleGetSnapshots)

	mux.HandleFunc("POST /research/add-event", s.handleResearchAddEvent)
	mux.HandleFunc("POST /research/ask-question", s.handleAskQuestion)
	mux.HandleFunc("POST /research/analyze-strategy", s.handleAnalyzeStrategy)
	mux.HandleFunc("GET /research/player-recommendations", s.handlePlayerRecommendations)
	mux.HandleFunc("GET /research/context-stats", s.handleContextStats)
	mux.HandleFunc("POST /research/clear-conversation", s.handleClearConversation)
	mux.HandleFunc("POST /research/reset-context", s.handleResetContext)

	mux.HandleFunc("POST /tactics/halftime", s.handleHalftimeTactics)
	mux.HandleFunc("POST /tactics/next-play", s.handleNextPlay)

	mux.HandleFunc("GET /ws/game_updates", s.handleWebSocket)
	mux.HandleFunc("GET /ws/status", s.handleWebSocketStatus)

	return mux
}

// withLogger carries the process logger into request contexts and logs
// completed requests.
func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.baseCtx != nil {
			r = r.WithContext(log.FromCtx(s.baseCtx).WithContext(r.Context()))
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		log.FromCtx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// subscribeState fans game state changes out to websocket clients and drops
// the cached live stats, so analyzer-driven scoreboard updates invalidate the
// cache the same way manual edits do.
func (s *Server) subscribeState(ctx context.Context) {
	s.state.Subscribe(ctx, func(gs core.GameState) {
		s.hub.Broadcast(gs)
		s.invalidateLiveStats(ctx)
	})
}

// Start implements srv.Service. It wires the state feed into the websocket
// hub and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.baseCtx = ctx
	s.started = time.Now()
	s.subscribeState(ctx)

	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr()).Msg("http server listening")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown implements srv.Service.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":       core.GridName,
		"version":    core.GridVersion,
		"repository": core.GridRepositoryURL,
		"status":     "operational",
		"features": map[string]bool{
			"frame_analysis":   true,
			"deep_research":    true,
			"halftime_tactics": true,
			"video_generation": s.video != nil,
			"websocket":        true,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"components": map[string]any{
			"cache_enabled":         s.cache != nil && s.cache.Enabled(),
			"websocket_connections": s.hub.Count(),
			"llm_provider":          s.app.LLMProvider,
		},
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.FromCtx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.serve(r.Context(), conn, s.state.State)
}

func (s *Server) handleWebSocketStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active_connections": s.hub.Count(),
		"endpoint":           "/ws/game_updates",
	})
}
