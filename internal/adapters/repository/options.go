package repository

import "github.com/okian/lineup/pkg/logger"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithLimit bounds the number of retained results. The oldest appended
// results are evicted first. Zero keeps everything.
func WithLimit(limit int) Option {
	return func(s *TreapStore) {
		if limit >= 0 {
			s.limit = limit
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *TreapStore) {
		s.logger = l
	}
}
