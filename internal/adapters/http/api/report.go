package api

import (
	"context"
	"io"
	"net/http"
)

// ReportDependencies renders the history report.
type ReportDependencies interface {
	Report(ctx context.Context) string
}

// ReportHandler handles report requests.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /report requests with a markdown body.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, h.deps.Report(r.Context()))
}
