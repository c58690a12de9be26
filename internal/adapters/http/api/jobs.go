package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
)

// JobDependencies submits and inspects asynchronous batches.
type JobDependencies interface {
	Submit(ctx context.Context, req types.JobRequest) (types.JobAccepted, error)
	Job(ctx context.Context, id string) (model.JobState, error)
}

// JobHandler handles job requests.
type JobHandler struct {
	deps JobDependencies
}

// NewJobHandler creates a new job handler.
func NewJobHandler(deps JobDependencies) *JobHandler {
	return &JobHandler{deps: deps}
}

// HandlePostJob handles POST /jobs requests. New jobs are answered with 202,
// resubmissions of a known request_id with 200 and duplicate=true.
func (h *JobHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req types.JobRequest
	if err := decode(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	ack, err := h.deps.Submit(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	status := http.StatusAccepted
	if ack.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, ack)
}

// HandleGetJob handles GET /jobs/{id} requests.
func (h *JobHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if !allow(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.Job(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
