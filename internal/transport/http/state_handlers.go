package http

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gridscope/gridscope/internal/analytics"
	"github.com/gridscope/gridscope/pkg/log"
)

const liveStatsCacheKey = "live_stats"

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.State())
}

func (s *Server) handleLiveStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, liveStatsCacheKey); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, cached)
			return
		}
	}

	gs := s.state.State()
	payload := map[string]any{
		"gameState": gs,
		"homeTeam":  gs.HomeTeam,
		"awayTeam":  gs.AwayTeam,
	}
	writeJSON(w, http.StatusOK, payload)

	if s.cache != nil {
		body, err := encodeForCache(payload)
		if err == nil {
			if err := s.cache.Set(ctx, liveStatsCacheKey, body); err != nil {
				log.FromCtx(ctx).Warn().Err(err).Msg("failed to cache live stats")
			}
		}
	}
}

func (s *Server) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Home int `json:"home"`
		Away int `json:"away"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.state.UpdateScore(req.Home, req.Away)
	s.recalcWinProb()

	writeJSON(w, http.StatusOK, map[string]any{"status": "updated", "state": s.state.State()})
}

func (s *Server) handleUpdateClock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Clock   string `json:"clock"`
		Quarter int    `json:"quarter"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.state.UpdateClock(req.Clock, req.Quarter)
	s.recalcWinProb()

	writeJSON(w, http.StatusOK, map[string]any{"status": "updated", "state": s.state.State()})
}

func (s *Server) handleUpdatePossession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Possession string `json:"possession"`
		Down       int    `json:"down"`
		Distance   int    `json:"distance"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gs := s.state.State()
	if req.Possession != gs.HomeTeam && req.Possession != gs.AwayTeam {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("possession must be %s or %s", gs.HomeTeam, gs.AwayTeam))
		return
	}

	s.state.UpdatePossession(req.Possession, req.Down, req.Distance)

	writeJSON(w, http.StatusOK, map[string]any{"status": "updated", "state": s.state.State()})
}

func (s *Server) handleResetGameState(w http.ResponseWriter, r *http.Request) {
	s.state.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset", "state": s.state.State()})
}

func (s *Server) handleEPA(w http.ResponseWriter, r *http.Request) {
	gs := s.state.State()

	// Field position is not tracked by the scoreboard reader, assume a
	// neutral spot in opponent territory.
	ep := s.epa.ExpectedPoints(analytics.Situation{
		Down:           gs.Down,
		Distance:       gs.Distance,
		YardLine:       35,
		IsOwnTerritory: false,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"current_ep": ep,
		"situation": map[string]any{
			"down":       gs.Down,
			"distance":   gs.Distance,
			"possession": gs.Possession,
		},
	})
}

func (s *Server) handleWinProbability(w http.ResponseWriter, r *http.Request) {
	gs := s.state.State()
	prob := s.winProb.FromGameState(gs)

	homeProb := prob
	awayProb := 100 - prob
	if gs.Possession != gs.HomeTeam {
		homeProb, awayProb = awayProb, homeProb
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"home_team":            gs.HomeTeam,
		"away_team":            gs.AwayTeam,
		"home_win_probability": round1(homeProb),
		"away_win_probability": round1(awayProb),
		"factors": map[string]any{
			"score_differential": gs.Score.Home - gs.Score.Away,
			"quarter":            gs.Quarter,
			"clock":              gs.Clock,
			"possession":         gs.Possession,
		},
	})
}

// recalcWinProb refreshes the live win probability after manual scoreboard
// edits.
func (s *Server) recalcWinProb() {
	gs := s.state.State()
	s.state.UpdatePlay(gs.LastPlay, s.winProb.FromGameState(gs), gs.OffensiveEPA)
}

func (s *Server) invalidateLiveStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, liveStatsCacheKey); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to invalidate live stats cache")
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
