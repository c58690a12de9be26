// Package repository keeps the history of evaluated scenarios.
package repository

import (
	"context"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
)

// Store provides read/write access to the scenario history.
type Store interface {
	// Reserve claims n consecutive result IDs and returns the first one.
	Reserve(ctx context.Context, n int) int
	// NextID returns the ID the next Reserve would start from.
	NextID(ctx context.Context) int

	// Append adds results. Either all are stored or none are.
	Append(ctx context.Context, results ...model.ScenarioResult) error

	// Get returns the result with id, or ErrNotFound.
	Get(ctx context.Context, id int) (model.ScenarioResult, error)
	// Rank returns the result with id and its 1-based position in the
	// ranking, or ErrNotFound.
	Rank(ctx context.Context, id int) (types.Entry, error)
	// TopN returns up to n results ordered by total rating desc, then ID asc.
	TopN(ctx context.Context, n int) ([]types.Entry, error)
	// Recent returns up to n results, most recently appended first.
	Recent(ctx context.Context, n int) ([]model.ScenarioResult, error)
	// All returns every retained result ordered by ID.
	All(ctx context.Context) []model.ScenarioResult

	// Count returns the number of retained results.
	Count(ctx context.Context) int
}
