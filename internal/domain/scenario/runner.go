// Package scenario runs what-if batches: the same lineup search repeated
// over filtered copies of a player pool.
package scenario

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// TimestampLayout is the ISO-8601 UTC, seconds precision layout used for
// result timestamps.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Lineuper selects a lineup of k players from a pool.
type Lineuper interface {
	Optimize(ctx context.Context, pool []model.Player, k int, objective optimizer.Objective) (model.LineupResult, error)
}

// RunOptions are the per-batch settings shared by every scenario.
type RunOptions struct {
	// AvailabilityDate restricts the pool to players available on that ISO
	// date. Empty means no restriction.
	AvailabilityDate string
	// StartID is the ID of the first result. Values <= 0 mean 1.
	StartID int
}

// Runner evaluates scenarios against a Lineuper.
type Runner struct {
	optimizer Lineuper
	now       func() time.Time
	logger    logger.Logger
}

// New constructs a Runner.
func New(opt Lineuper, opts ...Option) (*Runner, error) {
	if opt == nil {
		return nil, ErrNilOptimizer
	}
	r := &Runner{
		optimizer: opt,
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = logger.OrGlobal(r.logger, "scenario")
	return r, nil
}

// Run evaluates scenarios in order. IDs are assigned sequentially from
// opts.StartID, one per scenario whatever its outcome. A scenario whose
// filtered pool is smaller than k, or whose search fails, yields a
// placeholder result instead of failing the batch. An invalid size or objective is reported before any
// scenario runs. ctx is checked between scenarios; on cancellation the
// results produced so far are returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, pool []model.Player, scenarios []model.Scenario, k int, objective optimizer.Objective, opts RunOptions) ([]model.ScenarioResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", optimizer.ErrInvalidSize, k)
	}
	if err := objective.Validate(); err != nil {
		return nil, err
	}

	id := opts.StartID
	if id <= 0 {
		id = 1
	}
	results := make([]model.ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		label := strings.TrimSpace(sc.Name)
		if label == "" {
			label = "Scenario " + strconv.Itoa(id)
		}

		filtered := Filter(pool, sc, opts.AvailabilityDate)
		if len(filtered) < k {
			r.logger.Debug(ctx, "scenario has insufficient players",
				logger.Int("id", id),
				logger.String("scenario", label),
				logger.Int("available", len(filtered)),
				logger.Int("size", k),
			)
			metrics.RecordScenario("insufficient")
			results = append(results, placeholder(id, label+model.InsufficientSuffix, k, objective))
			id++
			continue
		}

		lr, err := r.optimizer.Optimize(ctx, filtered, k, objective)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			r.logger.Warn(ctx, "scenario search failed",
				logger.Int("id", id),
				logger.String("scenario", label),
				logger.Error(err),
			)
			metrics.RecordScenario("failed")
			failed := placeholder(id, label+model.FailedSuffix, k, objective)
			failed.Reasoning = err.Error()
			results = append(results, failed)
			id++
			continue
		}
		metrics.RecordScenario("selected")
		results = append(results, model.ScenarioResult{
			ID:           id,
			ScenarioName: label,
			Timestamp:    r.now().UTC().Format(TimestampLayout),
			Size:         k,
			LineupResult: lr,
		})
		id++
	}
	return results, nil
}

func placeholder(id int, name string, k int, objective optimizer.Objective) model.ScenarioResult {
	lr := model.NewLineupResult(nil, objective.String())
	lr.Warnings = []string{}
	return model.ScenarioResult{
		ID:           id,
		ScenarioName: name,
		Timestamp:    model.PlaceholderTimestamp,
		Size:         k,
		LineupResult: lr,
	}
}

// Filter returns the players of pool available on date (when date is set)
// that sc does not exclude by ID or case-insensitive name. pool is not
// modified.
func Filter(pool []model.Player, sc model.Scenario, date string) []model.Player {
	ids := make(map[string]struct{}, len(sc.ExcludeIDs))
	for _, id := range sc.ExcludeIDs {
		ids[id] = struct{}{}
	}
	names := make(map[string]struct{}, len(sc.ExcludeNames))
	for _, n := range sc.ExcludeNames {
		names[strings.ToLower(n)] = struct{}{}
	}

	out := make([]model.Player, 0, len(pool))
	for _, p := range pool {
		if !p.AvailableOn(date) {
			continue
		}
		if _, ok := ids[p.ID]; ok {
			continue
		}
		if _, ok := names[strings.ToLower(p.Name)]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Row renders res as the 9-column display tuple: id, time, objective,
// size, total, average, spread, delta and scenario name. The delta column
// is empty when reference is nil.
func Row(res model.ScenarioResult, reference *int) []string {
	delta := ""
	if reference != nil {
		delta = strconv.Itoa(res.TotalRating - *reference)
	}
	clock := res.Timestamp
	if i := strings.IndexByte(clock, 'T'); i >= 0 {
		clock = strings.TrimSuffix(clock[i+1:], "Z")
	}
	return []string{
		strconv.Itoa(res.ID),
		clock,
		res.Objective,
		strconv.Itoa(res.Size),
		strconv.Itoa(res.TotalRating),
		strconv.FormatFloat(res.AverageRating, 'f', 1, 64),
		strconv.Itoa(res.Spread),
		delta,
		res.Name(),
	}
}

// Rank returns a copy of results ordered by total rating descending, then
// ID ascending.
func Rank(results []model.ScenarioResult) []model.ScenarioResult {
	out := slices.Clone(results)
	slices.SortStableFunc(out, Compare)
	return out
}

// Compare orders results by total rating descending, then ID ascending.
func Compare(a, b model.ScenarioResult) int {
	if a.TotalRating != b.TotalRating {
		if a.TotalRating > b.TotalRating {
			return -1
		}
		return 1
	}
	return a.ID - b.ID
}
