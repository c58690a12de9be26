package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNotFound     = errors.New("scenario result not found")
	ErrInvalidLimit = errors.New("invalid history limit")
	ErrInvalidID    = errors.New("scenario result id must be positive")
	ErrDuplicateID  = errors.New("scenario result id already stored")
)
