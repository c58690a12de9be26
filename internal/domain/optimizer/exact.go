package optimizer

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/okian/lineup/internal/domain/model"
)

// searchExact enumerates every k-subset of pool in lexicographic index
// order and returns the indices of the best one together with the number
// of combinations evaluated. The caller validates k against len(pool).
func searchExact(pool []model.Player, k int, objective Objective) ([]int, int64) {
	gen := combin.NewCombinationGenerator(len(pool), k)
	combo := make([]int, k)
	ratings := make([]int, k)

	var (
		best      []int
		bestStats stats
		evaluated int64
	)
	for gen.Next() {
		gen.Combination(combo)
		for i, idx := range combo {
			ratings[i] = pool[idx].Rating
		}
		s := statsOf(ratings)
		evaluated++
		if best == nil || objective.better(s, bestStats) {
			best = append(best[:0], combo...)
			bestStats = s
		}
	}
	return best, evaluated
}

// SelectLineup runs the exact combinatorial search over pool regardless of
// the size of the search space. Errors: ErrInvalidSize when k <= 0,
// ErrInsufficientPool when k exceeds the pool, ErrUnknownObjective for an
// invalid objective.
func SelectLineup(pool []model.Player, k int, objective Objective) (model.LineupResult, error) {
	if err := validate(pool, k, objective); err != nil {
		return model.LineupResult{}, err
	}
	indices, _ := searchExact(pool, k, objective)
	res := buildResult(pool, indices, objective, strategyExact, formatCount(len(pool), k))
	applyWarnings(&res, DefaultHighSpreadThreshold, false)
	return res, nil
}
