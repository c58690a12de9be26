package optimizer

import "errors"

// Sentinel kinds for optimizer errors. Callers match them with errors.Is.
var (
	ErrInvalidSize      = errors.New("lineup size must be a positive integer")
	ErrInsufficientPool = errors.New("lineup size exceeds available players")
	ErrUnknownObjective = errors.New("unknown objective")
)
