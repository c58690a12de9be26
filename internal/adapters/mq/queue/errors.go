package queue

import "errors"

// Sentinel errors for enqueue failures.
var (
	ErrFull   = errors.New("queue full")
	ErrClosed = errors.New("queue closed")
)
