package model

import (
	"strconv"
	"strings"
)

// InsufficientSuffix marks placeholder results of scenarios whose filtered
// pool was smaller than the requested lineup size.
const InsufficientSuffix = " (insufficient players)"

// FailedSuffix marks placeholder results of scenarios whose lineup search
// returned an error.
const FailedSuffix = " (failed)"

// PlaceholderTimestamp is stamped on placeholder results.
const PlaceholderTimestamp = "1970-01-01T00:00:00Z"

// Scenario is a named what-if filter applied to a player pool.
type Scenario struct {
	Name         string   `json:"name" koanf:"name"`
	ExcludeIDs   []string `json:"exclude_ids,omitempty" koanf:"exclude_ids"`
	ExcludeNames []string `json:"exclude_names,omitempty" koanf:"exclude_names"`
}

// ScenarioResult is the outcome of one scenario in a batch run. It is
// treated as immutable once created.
type ScenarioResult struct {
	ID           int    `json:"id"`
	ScenarioName string `json:"scenario_name"`
	Timestamp    string `json:"timestamp"`
	Size         int    `json:"size"`
	LineupResult
}

// Name returns the scenario name, falling back to "Scenario {id}".
func (s ScenarioResult) Name() string {
	if strings.TrimSpace(s.ScenarioName) == "" {
		return "Scenario " + strconv.Itoa(s.ID)
	}
	return s.ScenarioName
}

// Insufficient reports whether s is a placeholder for a scenario that
// could not field a full lineup.
func (s ScenarioResult) Insufficient() bool {
	return len(s.Players) == 0 && strings.HasSuffix(s.ScenarioName, InsufficientSuffix)
}

// Failed reports whether s is a placeholder for a scenario whose search
// failed. Reasoning carries the error.
func (s ScenarioResult) Failed() bool {
	return len(s.Players) == 0 && strings.HasSuffix(s.ScenarioName, FailedSuffix)
}
