package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dota-coach/internal/analysis"
	"dota-coach/internal/api"
	"dota-coach/internal/config"
	"dota-coach/internal/metrics"
	"dota-coach/internal/service"

	"github.com/rs/zerolog"
)

// CoachServer is the thin JSON surface over the analysis and session
// services. Handlers only decode, delegate, and encode.
type CoachServer struct {
	analysisSvc *service.AnalysisService
	sessionSvc  *service.SessionService
	metrics     *metrics.Metrics
	cfg         *config.Config
	logger      zerolog.Logger
}

func NewCoachServer(
	analysisSvc *service.AnalysisService,
	sessionSvc *service.SessionService,
	m *metrics.Metrics,
	cfg *config.Config,
	logger zerolog.Logger,
) *CoachServer {
	return &CoachServer{
		analysisSvc: analysisSvc,
		sessionSvc:  sessionSvc,
		metrics:     m,
		cfg:         cfg,
		logger:      logger,
	}
}

// Register mounts the API routes on the mux.
func (s *CoachServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/analysis", s.handleAnalysis)
	mux.HandleFunc("POST /api/analysis", s.handleAnalyze)
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
}

func (s *CoachServer) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	s.serveAnalysis(w, r, refresh)
}

// handleAnalyze always recomputes; POST is the explicit "run it again" verb.
func (s *CoachServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.serveAnalysis(w, r, true)
}

func (s *CoachServer) serveAnalysis(w http.ResponseWriter, r *http.Request, refresh bool) {
	matchID, err := queryInt64(r, "match_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "match_id must be an integer")
		return
	}
	accountID, err := queryInt64(r, "account_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "account_id must be an integer")
		return
	}

	result, err := s.analysisSvc.AnalyzeMatch(r.Context(), matchID, accountID, refresh)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *CoachServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	accountID, err := queryInt64(r, "account_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "account_id must be an integer")
		return
	}
	days := s.cfg.HistoryLookbackDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	report, err := s.sessionSvc.GetReport(r.Context(), accountID, days, refresh)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *CoachServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *CoachServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrNotFound), errors.Is(err, analysis.ErrNoParticipant):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, api.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "provider rate limited, try again shortly")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt64(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
