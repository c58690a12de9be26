package optimizer

import "github.com/okian/lineup/pkg/logger"

// Option applies a configuration option to the Optimizer.
type Option func(*Optimizer)

// WithGeneticThreshold sets the combination count above which the genetic
// algorithm replaces exact search.
func WithGeneticThreshold(threshold int64) Option {
	return func(o *Optimizer) {
		if threshold >= 0 {
			o.geneticThreshold = threshold
		}
	}
}

// WithGeneticParams sets the genetic algorithm parameters.
func WithGeneticParams(params GeneticParams) Option {
	return func(o *Optimizer) {
		o.genetic = params
	}
}

// WithHighSpreadThreshold sets the spread above which results are flagged
// with the high_spread warning.
func WithHighSpreadThreshold(threshold int) Option {
	return func(o *Optimizer) {
		if threshold > 0 {
			o.highSpreadThreshold = threshold
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}
