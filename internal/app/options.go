package service

import (
	"time"

	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many job request IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistoryLimit caps the retained scenario results. Zero keeps all.
func WithHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.historyLimit = limit
		}
	}
}

// WithDefaultWeightSpread sets the weight used by weighted requests that
// carry none.
func WithDefaultWeightSpread(weight float64) Option {
	return func(s *Service) {
		if weight >= 0 {
			s.defaultWeight = weight
		}
	}
}

// WithOptimizerOptions configures the lineup optimizer.
func WithOptimizerOptions(opts ...optimizer.Option) Option {
	return func(s *Service) {
		s.optimizerOpts = append(s.optimizerOpts, opts...)
	}
}

// WithClock overrides the time source used for result timestamps and job
// state.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig translates cfg into service options.
func FromConfig(cfg *config.Config) []Option {
	params := optimizer.GeneticParams{
		Generations:      cfg.GeneticGenerations,
		PopulationSize:   cfg.GeneticPopulation,
		MutationRate:     cfg.GeneticMutationRate,
		SurvivorFraction: cfg.GeneticSurvivorFraction,
	}
	if cfg.GeneticSeed != 0 {
		params = params.WithSeed(cfg.GeneticSeed)
	}
	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithHistoryLimit(cfg.HistoryLimit),
		WithDefaultWeightSpread(cfg.DefaultWeightSpread),
		WithOptimizerOptions(
			optimizer.WithGeneticThreshold(cfg.GeneticThreshold),
			optimizer.WithGeneticParams(params),
			optimizer.WithHighSpreadThreshold(cfg.HighSpreadThreshold),
		),
	}
}
