// Package sensitivity sweeps the spread weight of the weighted objective
// to show how the chosen lineup reacts to it.
package sensitivity

import (
	"context"
	"fmt"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/pkg/metrics"
)

// Lineuper selects a lineup of k players from a pool.
type Lineuper interface {
	Optimize(ctx context.Context, pool []model.Player, k int, objective optimizer.Objective) (model.LineupResult, error)
}

// Point is the outcome of one weight in a sweep.
type Point struct {
	Weight      float64  `json:"weight"`
	TotalRating int      `json:"total_rating"`
	Spread      int      `json:"spread"`
	Score       float64  `json:"score"`
	Players     []string `json:"players"`
}

// Sweep runs the weighted objective once per weight, in order. Any
// optimizer error aborts the sweep. ctx is checked between weights.
func Sweep(ctx context.Context, opt Lineuper, pool []model.Player, k int, weights []float64) ([]Point, error) {
	out := make([]Point, 0, len(weights))
	for _, w := range weights {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := opt.Optimize(ctx, pool, k, optimizer.WeightedObjective(w))
		if err != nil {
			return out, fmt.Errorf("weight %g: %w", w, err)
		}
		out = append(out, Point{
			Weight:      w,
			TotalRating: res.TotalRating,
			Spread:      res.Spread,
			Score:       float64(res.TotalRating) - w*float64(res.Spread),
			Players:     model.Names(res.Players),
		})
	}
	metrics.RecordSensitivityPoints(len(out))
	return out, nil
}

// Best returns the point with the highest score; the first one wins ties.
// ok is false for an empty sweep.
func Best(points []Point) (best Point, ok bool) {
	for i, p := range points {
		if i == 0 || p.Score > best.Score {
			best = p
		}
	}
	return best, len(points) > 0
}
