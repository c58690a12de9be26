package model

import "time"

// BatchRequest describes a what-if batch: a pool, the scenarios to run over
// it and the search parameters shared by every scenario.
type BatchRequest struct {
	Players          []Player   `json:"players"`
	Scenarios        []Scenario `json:"scenarios"`
	Size             int        `json:"size"`
	Objective        string     `json:"objective"`
	WeightSpread     *float64   `json:"weight_spread,omitempty"`
	AvailabilityDate string     `json:"availability_date,omitempty"`
}

// Job is a batch request queued for asynchronous execution.
type Job struct {
	ID          string
	RequestID   string
	Request     BatchRequest
	SubmittedAt time.Time
}

// JobStatus is the lifecycle state of a Job.
type JobStatus string

// Job lifecycle states.
const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// JobState is the externally visible progress of a Job.
type JobState struct {
	ID          string     `json:"id"`
	RequestID   string     `json:"request_id,omitempty"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	ResultIDs   []int      `json:"result_ids,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}
