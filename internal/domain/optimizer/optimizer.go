package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Default dispatcher configuration.
const (
	DefaultGeneticThreshold    = 5000
	DefaultHighSpreadThreshold = 250
)

// Strategy names reported in reasoning, logs and metrics.
const (
	strategyExact   = "exact"
	strategyGenetic = "genetic"
)

// Optimizer picks exact or heuristic search based on the size of the search
// space. It holds configuration only; every call is independent, so a
// single Optimizer may be shared between goroutines.
type Optimizer struct {
	geneticThreshold    int64
	highSpreadThreshold int
	genetic             GeneticParams
	logger              logger.Logger
}

// New constructs an Optimizer with default configuration.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		geneticThreshold:    DefaultGeneticThreshold,
		highSpreadThreshold: DefaultHighSpreadThreshold,
		genetic:             DefaultGeneticParams(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logger.OrGlobal(o.logger, "optimizer")
	return o
}

// Optimize returns the best lineup of k players from pool. When C(n, k)
// exceeds the genetic threshold (or overflows) the genetic algorithm is used
// and the heuristic_used warning is set.
func (o *Optimizer) Optimize(ctx context.Context, pool []model.Player, k int, objective Objective) (model.LineupResult, error) {
	if err := validate(pool, k, objective); err != nil {
		metrics.RecordOptimizationError(errorReason(err))
		return model.LineupResult{}, err
	}

	start := time.Now()
	n := len(pool)
	heuristic := exceeds(n, k, o.geneticThreshold)
	strategy := strategyExact

	var indices []int
	if heuristic {
		strategy = strategyGenetic
		indices = searchGenetic(pool, k, objective, o.genetic).genes
	} else {
		var evaluated int64
		indices, evaluated = searchExact(pool, k, objective)
		metrics.RecordCombinationsEvaluated(evaluated)
	}

	res := buildResult(pool, indices, objective, strategy, formatCount(n, k))
	applyWarnings(&res, o.highSpreadThreshold, heuristic)

	elapsed := time.Since(start)
	metrics.RecordOptimization(strategy, objective.String())
	metrics.RecordOptimizationLatency(strategy, float64(elapsed.Microseconds())/1000)
	o.logger.Debug(ctx, "lineup selected",
		logger.String("strategy", strategy),
		logger.String("objective", objective.String()),
		logger.Int("pool", n),
		logger.Int("size", k),
		logger.Int("total", res.TotalRating),
		logger.Int("spread", res.Spread),
		logger.Duration("elapsed", elapsed),
	)
	return res, nil
}

// UsesHeuristic reports whether a pool of n players and size k would be
// routed to the genetic algorithm.
func (o *Optimizer) UsesHeuristic(n, k int) bool {
	return exceeds(n, k, o.geneticThreshold)
}

func validate(pool []model.Player, k int, objective Objective) error {
	if k <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, k)
	}
	if k > len(pool) {
		return fmt.Errorf("%w: size %d, pool %d", ErrInsufficientPool, k, len(pool))
	}
	return objective.Validate()
}

func buildResult(pool []model.Player, indices []int, objective Objective, strategy, combinations string) model.LineupResult {
	chosen := make([]model.Player, len(indices))
	for i, idx := range indices {
		chosen[i] = pool[idx]
	}
	res := model.NewLineupResult(chosen, objective.String())

	var sb strings.Builder
	fmt.Fprintf(&sb, "objective=%s", objective)
	if objective.Kind == Weighted {
		fmt.Fprintf(&sb, " weight_spread=%g", objective.WeightSpread)
	}
	fmt.Fprintf(&sb, " strategy=%s combinations=%s size=%d", strategy, combinations, len(indices))
	fmt.Fprintf(&sb, " total=%d spread=%d players=%s", res.TotalRating, res.Spread, strings.Join(model.Names(chosen), ", "))
	res.Reasoning = sb.String()
	return res
}

func applyWarnings(res *model.LineupResult, highSpread int, heuristic bool) {
	res.Warnings = []string{}
	if res.Spread > highSpread {
		res.Warnings = append(res.Warnings, model.WarningHighSpread)
	}
	if heuristic {
		res.Warnings = append(res.Warnings, model.WarningHeuristicUsed)
	}
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSize):
		return "invalid_size"
	case errors.Is(err, ErrInsufficientPool):
		return "insufficient_pool"
	case errors.Is(err, ErrUnknownObjective):
		return "unknown_objective"
	default:
		return "unknown"
	}
}
