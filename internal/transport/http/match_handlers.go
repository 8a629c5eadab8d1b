package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gridscope/gridscope/internal/core"
)

type teamsRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

func (s *Server) teamsOrDefault(req teamsRequest) (string, string) {
	home, away := req.HomeTeam, req.AwayTeam
	if home == "" {
		home = s.app.HomeTeam
	}
	if away == "" {
		away = s.app.AwayTeam
	}
	return home, away
}

func (s *Server) handleMatchStart(w http.ResponseWriter, r *http.Request) {
	var req teamsRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	home, away := s.teamsOrDefault(req)

	m, err := s.matches.ActiveOrNewMatch(r.Context(), home, away)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "started", "match": m})
}

func (s *Server) handleMatchRestart(w http.ResponseWriter, r *http.Request) {
	var req teamsRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	home, away := s.teamsOrDefault(req)

	m, err := s.matches.RestartMatch(r.Context(), home, away)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// A fresh match drops the accumulated context and scoreboard.
	s.state.Reset()
	s.research.ResetContext(r.Context())
	s.tactics.ResetContext(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{"status": "restarted", "match": m})
}

func (s *Server) currentMatch(w http.ResponseWriter, r *http.Request) (*core.Match, bool) {
	m, err := s.matches.ActiveMatch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "no active match")
		return nil, false
	}
	return m, true
}

func (s *Server) handleMatchCurrent(w http.ResponseWriter, r *http.Request) {
	m, ok := s.currentMatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMatchCurrentFull(w http.ResponseWriter, r *http.Request) {
	m, ok := s.currentMatch(w, r)
	if !ok {
		return
	}
	s.writeFullMatch(w, r, m)
}

func (s *Server) writeFullMatch(w http.ResponseWriter, r *http.Request, m *core.Match) {
	ctx := r.Context()

	events, err := s.matches.Events(ctx, m.ID, 0, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	highlights, err := s.matches.Highlights(ctx, m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics, err := s.matches.Metrics(ctx, m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"match":      m,
		"events":     events,
		"highlights": highlights,
		"metrics":    metrics,
	})
}

func (s *Server) handleMatchAddEvent(w http.ResponseWriter, r *http.Request) {
	var result core.AnalysisResult
	if err := decodeJSON(r, &result); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if result.Event == "" {
		writeError(w, http.StatusBadRequest, "event is required")
		return
	}

	m, ok := s.currentMatch(w, r)
	if !ok {
		return
	}

	event, err := s.matches.AddAnalysisEvent(r.Context(), m.ID, result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "added", "event": event})
}

func (s *Server) handleMatchAddHighlight(w http.ResponseWriter, r *http.Request) {
	var h core.Highlight
	if err := decodeJSON(r, &h); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.EventType == "" {
		writeError(w, http.StatusBadRequest, "event_type is required")
		return
	}

	m, ok := s.currentMatch(w, r)
	if !ok {
		return
	}

	saved, err := s.matches.AddHighlight(r.Context(), m.ID, h)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "added", "highlight": saved})
}

func (s *Server) handleMatchEvents(w http.ResponseWriter, r *http.Request) {
	m, ok := s.currentMatch(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	events, err := s.matches.Events(r.Context(), m.ID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []core.StoredEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleMatchHighlights(w http.ResponseWriter, r *http.Request) {
	m, ok := s.currentMatch(w, r)
	if !ok {
		return
	}

	highlights, err := s.matches.Highlights(r.Context(), m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if highlights == nil {
		highlights = []core.Highlight{}
	}
	writeJSON(w, http.StatusOK, highlights)
}

func (s *Server) handleMatchMetrics(w http.ResponseWriter, r *http.Request) {
	m, ok := s.currentMatch(w, r)
	if !ok {
		return
	}

	metrics, err := s.matches.Metrics(r.Context(), m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if metrics == nil {
		writeError(w, http.StatusNotFound, "no metrics for match")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleMatchEnd(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.matches.EndMatch(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrMatchNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended", "match_id": id})
}

func (s *Server) handleMatchHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	matches, err := s.matches.Matches(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []core.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleMatchByID(w http.ResponseWriter, r *http.Request) {
	m, err := s.matches.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMatchFullByID(w http.ResponseWriter, r *http.Request) {
	m, err := s.matches.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	s.writeFullMatch(w, r, m)
}

func (s *Server) handleAddSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap core.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap.MatchID = r.PathValue("id")

	saved, err := s.matches.SaveSnapshot(r.Context(), snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "snapshot": saved})
}

func (s *Server) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	snapshots, err := s.matches.Snapshots(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snapshots == nil {
		snapshots = []core.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
