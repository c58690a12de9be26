package report

import "errors"

// ErrLengthMismatch is returned when labels and values differ in length.
var ErrLengthMismatch = errors.New("labels and values length mismatch")
