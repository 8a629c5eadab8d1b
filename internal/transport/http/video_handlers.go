package http

import (
	"net/http"

	"github.com/gridscope/gridscope/internal/core"
)

func (s *Server) handleAnalyzeFrame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FrameData string `json:"frame_data"`
		MimeType  string `json:"mime_type"`
		Timestamp string `json:"timestamp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FrameData == "" {
		writeError(w, http.StatusBadRequest, "frame_data is required")
		return
	}

	results, err := s.frames.AnalyzeFrame(r.Context(), req.FrameData, req.MimeType, req.Timestamp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []core.AnalysisResult{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "analyzed",
		"count":  len(results),
		"events": results,
	})
}

func (s *Server) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	if s.video == nil {
		writeError(w, http.StatusServiceUnavailable, "video generation is not configured")
		return
	}

	var req core.VideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.video.GenerateVideo(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "generated",
		"video_url":  result.VideoURL,
		"request_id": result.RequestID,
	})
}
