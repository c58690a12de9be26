// Package prediction estimates match outcomes between two lineups from
// their aggregate ratings.
package prediction

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/okian/lineup/internal/domain/model"
)

// DefaultScale is the rating difference that makes one side ten times as
// likely to win.
const DefaultScale = 400.0

// WinProbability returns the chance that a beats b under a logistic model
// of the team rating difference. A non-positive scale means DefaultScale.
func WinProbability(a, b []model.Player, scale float64) float64 {
	if scale <= 0 {
		scale = DefaultScale
	}
	ra, rb := model.TeamRating(a), model.TeamRating(b)
	return 1 / (1 + math.Pow(10, float64(rb-ra)/scale))
}

// Simulation summarises a Monte Carlo run of independent matches.
type Simulation struct {
	Iterations     int     `json:"iterations"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinProbability float64 `json:"win_probability"`
	EmpiricalP     float64 `json:"empirical_p"`
}

// SimulateMatch plays iterations Bernoulli trials at the logistic win
// probability of a over b. The same seed always yields the same result.
func SimulateMatch(a, b []model.Player, iterations int, seed uint64) (Simulation, error) {
	if iterations <= 0 {
		return Simulation{}, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	p := WinProbability(a, b, DefaultScale)
	rng := rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))
	wins := 0
	for range iterations {
		if rng.Float64() < p {
			wins++
		}
	}
	return Simulation{
		Iterations:     iterations,
		Wins:           wins,
		Losses:         iterations - wins,
		WinProbability: p,
		EmpiricalP:     float64(wins) / float64(iterations),
	}, nil
}

// Evaluation is one candidate lineup scored against an opponent.
type Evaluation struct {
	Lineup         []string `json:"lineup"`
	WinProbability float64  `json:"win_probability"`
	RatingDiff     int      `json:"rating_diff"`
}

// EvaluateAgainst scores every candidate against opponent and orders them
// by win probability, then rating difference, both descending.
func EvaluateAgainst(candidates [][]model.Player, opponent []model.Player) []Evaluation {
	out := make([]Evaluation, 0, len(candidates))
	opp := model.TeamRating(opponent)
	for _, c := range candidates {
		out = append(out, Evaluation{
			Lineup:         model.Names(c),
			WinProbability: WinProbability(c, opponent, DefaultScale),
			RatingDiff:     model.TeamRating(c) - opp,
		})
	}
	slices.SortStableFunc(out, func(x, y Evaluation) int {
		if c := cmp.Compare(y.WinProbability, x.WinProbability); c != 0 {
			return c
		}
		return cmp.Compare(y.RatingDiff, x.RatingDiff)
	})
	return out
}

// Recommendation is the best candidate of an evaluation run.
type Recommendation struct {
	Evaluation
	Evaluated int `json:"evaluated"`
}

// Recommend returns the top candidate against opponent. With no candidates
// the zero Recommendation is returned.
func Recommend(candidates [][]model.Player, opponent []model.Player) Recommendation {
	evals := EvaluateAgainst(candidates, opponent)
	if len(evals) == 0 {
		return Recommendation{Evaluation: Evaluation{Lineup: []string{}}}
	}
	return Recommendation{Evaluation: evals[0], Evaluated: len(evals)}
}
