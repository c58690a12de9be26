package api

import (
	"context"
	"net/http"

	"github.com/okian/lineup/internal/domain/model"
)

// ScenarioDependencies runs batches synchronously.
type ScenarioDependencies interface {
	RunScenarios(ctx context.Context, req model.BatchRequest) ([]model.ScenarioResult, error)
}

// ScenarioHandler handles synchronous batch requests.
type ScenarioHandler struct {
	deps ScenarioDependencies
}

// NewScenarioHandler creates a new scenario handler.
func NewScenarioHandler(deps ScenarioDependencies) *ScenarioHandler {
	return &ScenarioHandler{deps: deps}
}

// HandlePostScenarios handles POST /scenarios requests.
func (h *ScenarioHandler) HandlePostScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_scenarios"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req model.BatchRequest
	if err := decode(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	results, err := h.deps.RunScenarios(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scenariosResponse{Results: results})
}
