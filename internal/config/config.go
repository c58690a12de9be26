// Package config defines service configuration and its defaults.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of batch workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize caps the number of remembered job request IDs.
	DedupeSize int `koanf:"dedupe_size"`

	// HistoryLimit caps retained scenario results. Zero keeps everything.
	HistoryLimit int `koanf:"history_limit"`

	// MaxListLimit caps GET /history?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// GeneticThreshold is the combination count above which the genetic
	// search replaces exhaustive enumeration.
	GeneticThreshold int64 `koanf:"genetic_threshold"`

	GeneticGenerations      int     `koanf:"genetic_generations"`
	GeneticPopulation       int     `koanf:"genetic_population"`
	GeneticMutationRate     float64 `koanf:"genetic_mutation_rate"`
	GeneticSurvivorFraction float64 `koanf:"genetic_survivor_fraction"`

	// GeneticSeed makes the genetic search reproducible. Zero seeds it
	// randomly per search.
	GeneticSeed uint64 `koanf:"genetic_seed"`

	// HighSpreadThreshold flags lineups whose spread exceeds it.
	HighSpreadThreshold int `koanf:"high_spread_threshold"`

	// DefaultWeightSpread applies to weighted requests that carry no weight.
	DefaultWeightSpread float64 `koanf:"default_weight_spread"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		QueueSize:               1024,
		WorkerCount:             runtime.NumCPU(),
		DedupeSize:              50_000,
		HistoryLimit:            10_000,
		MaxListLimit:            100,
		GeneticThreshold:        5000,
		GeneticGenerations:      60,
		GeneticPopulation:       40,
		GeneticMutationRate:     0.2,
		GeneticSurvivorFraction: 0.5,
		HighSpreadThreshold:     250,
		DefaultWeightSpread:     0.3,
	}
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !validLevel(c.LogLevel):
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.DedupeSize < 1:
		return fmt.Errorf("%w: dedupe_size must be positive, got %d", ErrInvalidConfig, c.DedupeSize)
	case c.HistoryLimit < 0:
		return fmt.Errorf("%w: history_limit must not be negative, got %d", ErrInvalidConfig, c.HistoryLimit)
	case c.MaxListLimit < 1:
		return fmt.Errorf("%w: max_list_limit must be positive, got %d", ErrInvalidConfig, c.MaxListLimit)
	case c.GeneticThreshold < 1:
		return fmt.Errorf("%w: genetic_threshold must be positive, got %d", ErrInvalidConfig, c.GeneticThreshold)
	case c.GeneticGenerations < 0:
		return fmt.Errorf("%w: genetic_generations must not be negative, got %d", ErrInvalidConfig, c.GeneticGenerations)
	case c.GeneticPopulation < 2:
		return fmt.Errorf("%w: genetic_population must be at least 2, got %d", ErrInvalidConfig, c.GeneticPopulation)
	case c.GeneticMutationRate < 0 || c.GeneticMutationRate > 1:
		return fmt.Errorf("%w: genetic_mutation_rate must be within [0,1], got %g", ErrInvalidConfig, c.GeneticMutationRate)
	case c.GeneticSurvivorFraction <= 0 || c.GeneticSurvivorFraction > 1:
		return fmt.Errorf("%w: genetic_survivor_fraction must be within (0,1], got %g", ErrInvalidConfig, c.GeneticSurvivorFraction)
	case c.HighSpreadThreshold < 0:
		return fmt.Errorf("%w: high_spread_threshold must not be negative, got %d", ErrInvalidConfig, c.HighSpreadThreshold)
	case c.DefaultWeightSpread < 0:
		return fmt.Errorf("%w: default_weight_spread must not be negative, got %g", ErrInvalidConfig, c.DefaultWeightSpread)
	}
	return nil
}

func validLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
