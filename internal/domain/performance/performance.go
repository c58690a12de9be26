// Package performance summarises roster strength and rating trends.
package performance

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/lineup/internal/domain/model"
)

// Strength aggregates the current ratings of a roster.
type Strength struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// TeamStrength returns count, mean, min and max rating of players. An
// empty roster yields the zero Strength.
func TeamStrength(players []model.Player) Strength {
	if len(players) == 0 {
		return Strength{}
	}
	ratings := make([]float64, len(players))
	for i, p := range players {
		ratings[i] = float64(p.Rating)
	}
	return Strength{
		Count:   len(ratings),
		Average: stat.Mean(ratings, nil),
		Min:     floats.Min(ratings),
		Max:     floats.Max(ratings),
	}
}

// Trend describes how a player's rating moved over its history.
type Trend struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Current       int     `json:"current"`
	RecentDelta   int     `json:"recent_delta"`
	HistoryPoints int     `json:"history_points"`
	Slope         float64 `json:"slope"`
}

// Trends returns one Trend per player, in input order. Slope is the mean
// change between successive history points and RecentDelta the last
// change; both are zero with fewer than two points.
func Trends(players []model.Player) []Trend {
	out := make([]Trend, len(players))
	for i, p := range players {
		t := Trend{
			ID:            p.ID,
			Name:          p.Name,
			Current:       p.Rating,
			HistoryPoints: len(p.History),
		}
		if len(p.History) >= 2 {
			deltas := make([]float64, len(p.History)-1)
			for j := 1; j < len(p.History); j++ {
				deltas[j-1] = float64(p.History[j].Rating - p.History[j-1].Rating)
			}
			t.Slope = stat.Mean(deltas, nil)
			t.RecentDelta = int(deltas[len(deltas)-1])
		}
		out[i] = t
	}
	return out
}
