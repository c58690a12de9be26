package model

import "slices"

// Warning flags attached to a LineupResult.
const (
	WarningHighSpread    = "high_spread"
	WarningHeuristicUsed = "heuristic_used"
)

// LineupResult is a chosen subset of players plus its summary statistics.
type LineupResult struct {
	Players       []Player `json:"players"`
	TotalRating   int      `json:"total_rating"`
	AverageRating float64  `json:"average_rating"`
	Spread        int      `json:"spread"`
	Objective     string   `json:"objective"`
	Reasoning     string   `json:"reasoning,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// NewLineupResult computes the statistics for players. The slice is copied.
func NewLineupResult(players []Player, objective string) LineupResult {
	r := LineupResult{
		Players:   slices.Clone(players),
		Objective: objective,
	}
	if len(players) == 0 {
		r.Players = []Player{}
		return r
	}
	lo, hi := players[0].Rating, players[0].Rating
	for _, p := range players {
		r.TotalRating += p.Rating
		lo = min(lo, p.Rating)
		hi = max(hi, p.Rating)
	}
	r.AverageRating = float64(r.TotalRating) / float64(len(players))
	r.Spread = hi - lo
	return r
}

// Size returns the number of chosen players.
func (r LineupResult) Size() int { return len(r.Players) }

// HasWarning reports whether flag is set on the result.
func (r LineupResult) HasWarning(flag string) bool {
	return slices.Contains(r.Warnings, flag)
}
