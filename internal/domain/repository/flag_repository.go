// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"flagpole/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for flag persistence.
var (
	// ErrFlagNotFound is returned when no record matches the lookup.
	ErrFlagNotFound = errors.New("flag not found")
)

// FlagRepository defines the interface for multiple binary flag storage.
// Records are insert-only.
type FlagRepository interface {
	// CreateFlag persists a new record and fills in its generated ID and timestamp.
	CreateFlag(ctx context.Context, record *entity.FlagRecord) error

	// FindLatestIDByView returns the ID of the newest record whose view matches exactly.
	FindLatestIDByView(ctx context.Context, view string) (int64, error)

	// FindFlagByID retrieves a record by its ID.
	FindFlagByID(ctx context.Context, id int64) (*entity.FlagRecord, error)
}
