package prediction

import "errors"

// ErrInvalidIterations is returned when a simulation is asked for a
// non-positive number of trials.
var ErrInvalidIterations = errors.New("iterations must be positive")
