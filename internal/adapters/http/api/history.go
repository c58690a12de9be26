package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// defaultListLimit applies when GET /history has no limit.
const defaultListLimit = 10

// HistoryDependencies reads the ranked scenario history.
type HistoryDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	Result(ctx context.Context, id int) (Entry, error)
}

// HistoryHandler handles history requests.
type HistoryHandler struct {
	deps     HistoryDependencies
	maxLimit int
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies, maxLimit int) *HistoryHandler {
	if maxLimit < 1 {
		maxLimit = defaultListLimit
	}
	return &HistoryHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetHistory handles GET /history?limit=N requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if !allow(w, r, http.MethodGet) {
		return
	}
	n := min(defaultListLimit, h.maxLimit)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeFailure(w, WrapKind(op, ErrBadRequest, fmt.Errorf("limit must be a positive integer, got %q", limitStr)))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded",
				WrapKind(op, ErrBadRequest, fmt.Errorf("limit %d exceeds %d", v, h.maxLimit)))
			return
		}
		n = v
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetResult handles GET /history/{id} requests.
func (h *HistoryHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	if !allow(w, r, http.MethodGet) {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/history/")
	id, err := strconv.Atoi(path)
	if err != nil || id < 1 {
		writeFailure(w, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid result id %q", path)))
		return
	}
	entry, err := h.deps.Result(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
