package roster

import "errors"

// Sentinel kinds for roster loading.
var (
	ErrLoad          = errors.New("load roster failed")
	ErrInvalidRoster = errors.New("invalid roster")
)
