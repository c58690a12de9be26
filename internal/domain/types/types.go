// Package types contains the request and response shapes shared by the
// service and its transports.
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/internal/domain/performance"
	"github.com/okian/lineup/internal/domain/prediction"
	"github.com/okian/lineup/internal/domain/sensitivity"
)

// Sentinel kinds shared by the service and its transports.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrBackpressure   = errors.New("backpressure")
	ErrStopped        = errors.New("service stopped")
)

// DefaultObjective is used when a request names no objective.
const DefaultObjective = "max_total"

// Entry is a scenario result with its position in the history ranking.
type Entry struct {
	Rank int `json:"rank"`
	model.ScenarioResult
}

// LineupRequest asks for the best lineup of Size players.
type LineupRequest struct {
	Players          []model.Player `json:"players"`
	Size             int            `json:"size"`
	Objective        string         `json:"objective,omitempty"`
	WeightSpread     *float64       `json:"weight_spread,omitempty"`
	AvailabilityDate string         `json:"availability_date,omitempty"`
}

// JobRequest submits a batch for asynchronous execution. RequestID makes
// resubmission idempotent.
type JobRequest struct {
	RequestID string `json:"request_id"`
	model.BatchRequest
}

// JobAccepted acknowledges a job submission.
type JobAccepted struct {
	JobID     string          `json:"job_id"`
	Status    model.JobStatus `json:"status"`
	Duplicate bool            `json:"duplicate"`
}

// PredictRequest compares two lineups. Iterations > 0 adds a seeded
// Monte Carlo run. Candidates, when given, are ranked against TeamB.
type PredictRequest struct {
	TeamA      []model.Player   `json:"team_a"`
	TeamB      []model.Player   `json:"team_b"`
	Iterations int              `json:"iterations,omitempty"`
	Seed       uint64           `json:"seed,omitempty"`
	Scale      float64          `json:"scale,omitempty"`
	Candidates [][]model.Player `json:"candidates,omitempty"`
}

// PredictResponse carries the model probability, the optional simulation
// and the candidate ranking.
type PredictResponse struct {
	WinProbability float64                    `json:"win_probability"`
	RatingDiff     int                        `json:"rating_diff"`
	Simulation     *prediction.Simulation     `json:"simulation,omitempty"`
	Evaluations    []prediction.Evaluation    `json:"evaluations,omitempty"`
	Recommendation *prediction.Recommendation `json:"recommendation,omitempty"`
}

// SensitivityRequest sweeps the weighted objective over Weights.
type SensitivityRequest struct {
	Players []model.Player `json:"players"`
	Size    int            `json:"size"`
	Weights []float64      `json:"weights"`
}

// SensitivityResponse lists every sweep point and the best one.
type SensitivityResponse struct {
	Points []sensitivity.Point `json:"points"`
	Best   *sensitivity.Point  `json:"best,omitempty"`
}

// PerformanceRequest asks for the strength and rating trends of a roster.
type PerformanceRequest struct {
	Players []model.Player `json:"players"`
}

// PerformanceResponse summarises a roster.
type PerformanceResponse struct {
	Strength performance.Strength `json:"strength"`
	Trends   []performance.Trend  `json:"trends"`
}

// ResolveObjective parses name (DefaultObjective when blank) and applies
// weight to the weighted objective. A nil weight keeps defaultWeight.
func ResolveObjective(name string, weight *float64, defaultWeight float64) (optimizer.Objective, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultObjective
	}
	obj, err := optimizer.ParseObjective(name)
	if err != nil {
		return optimizer.Objective{}, err
	}
	if obj.Kind != optimizer.Weighted {
		return obj, nil
	}
	w := defaultWeight
	if weight != nil {
		w = *weight
	}
	if w < 0 {
		return optimizer.Objective{}, fmt.Errorf("%w: weight_spread must not be negative", ErrInvalidRequest)
	}
	return obj.WithWeight(w), nil
}

// ValidatePlayers checks that every player has an ID, that IDs are unique
// and that no rating is negative.
func ValidatePlayers(players []model.Player) error {
	seen := make(map[string]struct{}, len(players))
	for i, p := range players {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: player %d has no id", ErrInvalidRequest, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidRequest, p.ID)
		}
		if p.Rating < 0 {
			return fmt.Errorf("%w: player %q has negative rating %d", ErrInvalidRequest, p.ID, p.Rating)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Validate checks the request shape. Size and objective are checked by the
// optimizer.
func (r LineupRequest) Validate() error {
	if len(r.Players) == 0 {
		return fmt.Errorf("%w: players must not be empty", ErrInvalidRequest)
	}
	return ValidatePlayers(r.Players)
}

// ValidateBatch checks a batch request shape.
func ValidateBatch(r model.BatchRequest) error {
	if len(r.Players) == 0 {
		return fmt.Errorf("%w: players must not be empty", ErrInvalidRequest)
	}
	if len(r.Scenarios) == 0 {
		return fmt.Errorf("%w: scenarios must not be empty", ErrInvalidRequest)
	}
	return ValidatePlayers(r.Players)
}

// Validate checks the job request shape, including a non-blank RequestID.
func (r JobRequest) Validate() error {
	if strings.TrimSpace(r.RequestID) == "" {
		return fmt.Errorf("%w: missing request_id", ErrInvalidRequest)
	}
	return ValidateBatch(r.BatchRequest)
}

// Validate checks that both teams are present and any iteration count is
// non-negative.
func (r PredictRequest) Validate() error {
	switch {
	case len(r.TeamA) == 0:
		return fmt.Errorf("%w: team_a must not be empty", ErrInvalidRequest)
	case len(r.TeamB) == 0:
		return fmt.Errorf("%w: team_b must not be empty", ErrInvalidRequest)
	case r.Iterations < 0:
		return fmt.Errorf("%w: iterations must not be negative", ErrInvalidRequest)
	}
	for i, c := range r.Candidates {
		if len(c) == 0 {
			return fmt.Errorf("%w: candidate %d is empty", ErrInvalidRequest, i)
		}
	}
	return nil
}

// Validate checks that there is a pool and at least one weight.
func (r SensitivityRequest) Validate() error {
	if len(r.Weights) == 0 {
		return fmt.Errorf("%w: weights must not be empty", ErrInvalidRequest)
	}
	if len(r.Players) == 0 {
		return fmt.Errorf("%w: players must not be empty", ErrInvalidRequest)
	}
	return ValidatePlayers(r.Players)
}

// Validate checks that there is a roster.
func (r PerformanceRequest) Validate() error {
	if len(r.Players) == 0 {
		return fmt.Errorf("%w: players must not be empty", ErrInvalidRequest)
	}
	return ValidatePlayers(r.Players)
}
