package api

import (
	"context"
	"net/http"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
)

// LineupDependencies selects single lineups.
type LineupDependencies interface {
	Optimize(ctx context.Context, req types.LineupRequest) (model.LineupResult, error)
}

// LineupHandler handles lineup requests.
type LineupHandler struct {
	deps LineupDependencies
}

// NewLineupHandler creates a new lineup handler.
func NewLineupHandler(deps LineupDependencies) *LineupHandler {
	return &LineupHandler{deps: deps}
}

// HandlePostLineup handles POST /lineup requests.
func (h *LineupHandler) HandlePostLineup(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_lineup"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req types.LineupRequest
	if err := decode(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.Optimize(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
