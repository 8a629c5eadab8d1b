package http

import (
	"net/http"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/log"
)

func (s *Server) handleResearchAddEvent(w http.ResponseWriter, r *http.Request) {
	var event core.StoredEvent
	if err := decodeJSON(r, &event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if event.EventType == "" {
		writeError(w, http.StatusBadRequest, "event_type is required")
		return
	}

	// Live events ground both the research and tactics context stores.
	if err := s.research.AddLiveEvent(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.tactics.AddGameEvent(r.Context(), event); err != nil {
		log.FromCtx(r.Context()).Warn().Err(err).Msg("failed to add event to tactics context")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "added",
		"context_items": s.research.ContextStats().TotalItems,
	})
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.research.AnswerQuestion(r.Context(), req.Question, s.state.State())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"question": req.Question,
		"answer":   answer,
	})
}

func (s *Server) handleAnalyzeStrategy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	insight, err := s.research.AnalyzeStrategy(r.Context(), req.Query, s.state.State())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

func (s *Server) handlePlayerRecommendations(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")

	recs, err := s.research.PlayerRecommendations(r.Context(), s.state.State(), team)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"team":            team,
		"recommendations": recs,
	})
}

func (s *Server) handleContextStats(w http.ResponseWriter, r *http.Request) {
	stats := s.research.ContextStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"context":             stats,
		"conversation_length": len(s.research.History()),
	})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	s.research.ClearConversation()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleResetContext(w http.ResponseWriter, r *http.Request) {
	s.research.ResetContext(r.Context())
	s.tactics.ResetContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleHalftimeTactics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OffenseTeam string `json:"offense_team"`
		DefenseTeam string `json:"defense_team"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	gs := s.state.State()
	offense, defense := req.OffenseTeam, req.DefenseTeam
	if offense == "" {
		offense = gs.Possession
	}
	if defense == "" {
		if offense == gs.HomeTeam {
			defense = gs.AwayTeam
		} else {
			defense = gs.HomeTeam
		}
	}

	plan, err := s.tactics.GenerateHalftimeTactics(r.Context(), gs, offense, defense)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleNextPlay(w http.ResponseWriter, r *http.Request) {
	gs := s.state.State()

	var recent []core.StoredEvent
	if m, err := s.matches.ActiveMatch(r.Context()); err == nil && m != nil {
		recent, _ = s.matches.Events(r.Context(), m.ID, 5, 0)
	}

	suggestion, err := s.tactics.NextPlaySuggestion(r.Context(), gs, recent, gs.Possession)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}
