package service

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
)

// jobTracker keeps the lifecycle state of submitted jobs.
type jobTracker struct {
	mu   sync.RWMutex
	jobs map[string]model.JobState
}

func newJobTracker() *jobTracker {
	return &jobTracker{jobs: make(map[string]model.JobState)}
}

func (t *jobTracker) queued(job model.Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[job.ID] = model.JobState{
		ID:          job.ID,
		RequestID:   job.RequestID,
		Status:      model.JobQueued,
		SubmittedAt: job.SubmittedAt,
	}
}

func (t *jobTracker) running(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.jobs[id]; ok {
		st.Status = model.JobRunning
		t.jobs[id] = st
	}
}

func (t *jobTracker) finish(id string, at time.Time, resultIDs []int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.jobs[id]
	if !ok {
		return
	}
	st.Status = model.JobDone
	if err != nil {
		st.Status = model.JobFailed
		st.Error = err.Error()
	}
	st.ResultIDs = resultIDs
	st.FinishedAt = &at
	t.jobs[id] = st
}

func (t *jobTracker) forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, id)
}

func (t *jobTracker) get(id string) (model.JobState, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.jobs[id]
	if !ok {
		return model.JobState{}, fmt.Errorf("%w: job %s", types.ErrNotFound, id)
	}
	st.ResultIDs = slices.Clone(st.ResultIDs)
	return st, nil
}

// counts returns the number of jobs per status.
func (t *jobTracker) counts() map[model.JobStatus]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[model.JobStatus]int, 4)
	for _, st := range t.jobs {
		out[st.Status]++
	}
	return out
}
