package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/internal/domain/prediction"
	"github.com/okian/lineup/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrMethod      = errors.New("method not allowed")
	ErrPayloadSize = errors.New("request body too large")
)

// NewKind tags an operation with an error kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with an operation and an error kind.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap tags err with an operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// classify maps an error to an HTTP status and a response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, types.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, types.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, ErrPayloadSize):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, types.ErrInvalidRequest),
		errors.Is(err, optimizer.ErrInvalidSize),
		errors.Is(err, optimizer.ErrInsufficientPool),
		errors.Is(err, optimizer.ErrUnknownObjective),
		errors.Is(err, prediction.ErrInvalidIterations):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal_error"
}
