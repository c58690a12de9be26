// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	LineupDependencies
	ScenarioDependencies
	JobDependencies
	HistoryDependencies
	ReportDependencies
	AnalyticsDependencies
}

// Entry mirrors the read shape returned by history queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	lineupHandler    *LineupHandler
	scenarioHandler  *ScenarioHandler
	jobHandler       *JobHandler
	historyHandler   *HistoryHandler
	reportHandler    *ReportHandler
	analyticsHandler *AnalyticsHandler
}

// NewServer creates a new API server with all handlers. maxListLimit caps
// GET /history?limit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxListLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		lineupHandler:    NewLineupHandler(deps),
		scenarioHandler:  NewScenarioHandler(deps),
		jobHandler:       NewJobHandler(deps),
		historyHandler:   NewHistoryHandler(deps, maxListLimit),
		reportHandler:    NewReportHandler(deps),
		analyticsHandler: NewAnalyticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/lineup", MetricsMiddleware(s.lineupHandler.HandlePostLineup, "lineup"))
	mux.HandleFunc("/scenarios", MetricsMiddleware(s.scenarioHandler.HandlePostScenarios, "scenarios"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.jobHandler.HandlePostJob, "jobs"))
	mux.HandleFunc("/jobs/", MetricsMiddleware(s.jobHandler.HandleGetJob, "job"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/history/", MetricsMiddleware(s.historyHandler.HandleGetResult, "history_result"))
	mux.HandleFunc("/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.analyticsHandler.HandlePostPredict, "predict"))
	mux.HandleFunc("/sensitivity", MetricsMiddleware(s.analyticsHandler.HandlePostSensitivity, "sensitivity"))
	mux.HandleFunc("/performance", MetricsMiddleware(s.analyticsHandler.HandlePostPerformance, "performance"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type scenariosResponse struct {
	Results []model.ScenarioResult `json:"results"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure answers with the status classify picks for err.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// allow rejects requests whose method is not method.
func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethod)
	return false
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, op string, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind(op, ErrPayloadSize, err)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
