package api

import (
	"context"
	"net/http"

	"github.com/okian/lineup/internal/domain/types"
)

// AnalyticsDependencies computes predictions, weight sweeps and roster
// summaries.
type AnalyticsDependencies interface {
	Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error)
	Sensitivity(ctx context.Context, req types.SensitivityRequest) (types.SensitivityResponse, error)
	Performance(ctx context.Context, req types.PerformanceRequest) (types.PerformanceResponse, error)
}

// AnalyticsHandler handles prediction and sensitivity requests.
type AnalyticsHandler struct {
	deps AnalyticsDependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps AnalyticsDependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// HandlePostPredict handles POST /predict requests.
func (h *AnalyticsHandler) HandlePostPredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_predict"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req types.PredictRequest
	if err := decode(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	resp, err := h.deps.Predict(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePostSensitivity handles POST /sensitivity requests.
func (h *AnalyticsHandler) HandlePostSensitivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sensitivity"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req types.SensitivityRequest
	if err := decode(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	resp, err := h.deps.Sensitivity(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePostPerformance handles POST /performance requests.
func (h *AnalyticsHandler) HandlePostPerformance(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_performance"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req types.PerformanceRequest
	if err := decode(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	resp, err := h.deps.Performance(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
