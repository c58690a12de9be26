// Package optimizer selects the best lineup of k players from a pool under
// a scoring objective. Small search spaces are enumerated exactly; large
// ones fall back to a seeded genetic algorithm.
package optimizer

import (
	"fmt"
	"strings"
)

// DefaultWeightSpread is the spread penalty used by the weighted objective
// when none is given.
const DefaultWeightSpread = 0.3

// Kind enumerates the fixed set of scoring rules.
type Kind int

// Objective kinds. The zero value is not a valid kind.
const (
	MaxTotal Kind = iota + 1
	MinSpread
	Weighted
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case MaxTotal:
		return "max_total"
	case MinSpread:
		return "min_spread"
	case Weighted:
		return "weighted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Objective is the scoring rule used to rank candidate lineups.
// WeightSpread is only consulted for Weighted.
type Objective struct {
	Kind         Kind
	WeightSpread float64
}

// MaxTotalObjective maximizes the total rating.
func MaxTotalObjective() Objective { return Objective{Kind: MaxTotal} }

// MinSpreadObjective minimizes the rating spread, preferring a higher
// average among equal spreads.
func MinSpreadObjective() Objective { return Objective{Kind: MinSpread} }

// WeightedObjective maximizes total - weight*spread.
func WeightedObjective(weight float64) Objective {
	return Objective{Kind: Weighted, WeightSpread: weight}
}

// ParseObjective maps a wire name to an Objective. The weighted objective
// gets DefaultWeightSpread; use WithWeight to override it. The legacy names
// "qttr_max" and "balance" are accepted as aliases.
func ParseObjective(name string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "max_total", "qttr_max":
		return MaxTotalObjective(), nil
	case "min_spread", "balance":
		return MinSpreadObjective(), nil
	case "weighted":
		return WeightedObjective(DefaultWeightSpread), nil
	default:
		return Objective{}, fmt.Errorf("%w: %q", ErrUnknownObjective, name)
	}
}

// WithWeight returns a copy of o with the spread weight replaced.
func (o Objective) WithWeight(weight float64) Objective {
	o.WeightSpread = weight
	return o
}

// String returns the wire name of the objective.
func (o Objective) String() string { return o.Kind.String() }

// Validate reports ErrUnknownObjective for kinds outside the fixed set.
func (o Objective) Validate() error {
	switch o.Kind {
	case MaxTotal, MinSpread, Weighted:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownObjective, o.Kind)
	}
}

// stats is the per-candidate summary the objectives score from.
type stats struct {
	total   int
	spread  int
	average float64
}

func statsOf(ratings []int) stats {
	lo, hi, total := ratings[0], ratings[0], 0
	for _, r := range ratings {
		total += r
		lo = min(lo, r)
		hi = max(hi, r)
	}
	return stats{total: total, spread: hi - lo, average: float64(total) / float64(len(ratings))}
}

// better reports whether a strictly beats b under the exact-search rules.
// Ties return false so the earliest enumerated candidate is kept.
func (o Objective) better(a, b stats) bool {
	switch o.Kind {
	case MaxTotal:
		return a.total > b.total
	case MinSpread:
		// (spread, -average) compared lexicographically, smaller wins.
		if a.spread != b.spread {
			return a.spread < b.spread
		}
		return a.average > b.average
	case Weighted:
		return o.weightedScore(a) > o.weightedScore(b)
	default:
		return false
	}
}

func (o Objective) weightedScore(s stats) float64 {
	return float64(s.total) - o.WeightSpread*float64(s.spread)
}

// fitness is the scalar score the genetic algorithm maximizes.
func (o Objective) fitness(s stats) float64 {
	switch o.Kind {
	case MaxTotal:
		return float64(s.total)
	case MinSpread:
		// Constant offset keeps values positive and comparable.
		return 10000 - 10*float64(s.spread) + s.average
	case Weighted:
		return o.weightedScore(s)
	default:
		return 0
	}
}
