package scenario

import (
	"time"

	"github.com/okian/lineup/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithClock sets the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
