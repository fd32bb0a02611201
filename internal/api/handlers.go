package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ekgstack/ekg-engine/internal/electro"
	"github.com/ekgstack/ekg-engine/internal/extractors"
	"github.com/ekgstack/ekg-engine/internal/ingest"
	"github.com/ekgstack/ekg-engine/internal/models"
	"github.com/ekgstack/ekg-engine/internal/trends"
)

// Response is the uniform JSON envelope for every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Success: false, Error: msg})
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedInputType),
		errors.Is(err, ingest.ErrInvalidMetadata):
		return http.StatusBadRequest
	case errors.Is(err, extractors.ErrEmptySignal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, electro.ErrNotCalibrated):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var input models.EKGInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis, err := s.service.Analyze(r.Context(), input)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("t")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter: t")
		return
	}
	tMs, err := strconv.ParseFloat(raw, 64)
	if err != nil || tMs < 0 {
		writeError(w, http.StatusBadRequest, "t must be a non-negative number of milliseconds")
		return
	}

	state, err := s.service.State(tMs)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	req := models.ListAnalysesRequest{
		Rhythm:    models.Rhythm(r.URL.Query().Get("rhythm")),
		PageToken: r.URL.Query().Get("page_token"),
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			writeError(w, http.StatusBadRequest, "page_size must be a non-negative integer")
			return
		}
		req.PageSize = size
	}

	resp, err := s.service.ListAnalyses(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	analysis, ok := s.service.GetAnalysis(id)
	if !ok {
		writeError(w, http.StatusNotFound, "analysis not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type statsPayload struct {
	Trends       []trends.RhythmTrend `json:"trends"`
	LatencyP95Ms float64              `json:"latency_p95_ms"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsPayload{
		Trends:       s.service.Trends(),
		LatencyP95Ms: float64(s.service.LatencyP95()) / float64(time.Millisecond),
	})
}
