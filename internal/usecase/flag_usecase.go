package usecase

import (
	"context"

	"flagpole/internal/domain/entity"
)

// FlagBuildInput describes a flag set to build and store in one call.
// Reset indexes are applied before Set indexes.
type FlagBuildInput struct {
	Size    int   `json:"size"`
	Initial bool  `json:"initial"`
	Set     []int `json:"set"`
	Reset   []int `json:"reset"`
}

// FlagUsecase defines the interface for multiple binary flag use cases
type FlagUsecase interface {
	// NewFlag creates a flag set using the configured aggregate rule
	NewFlag(size int, initial bool) (*entity.MultipleBinaryFlag, error)

	// AddFlag stores a view and its aggregate value. A malformed view reports
	// false with a nil error; only infrastructure failures return an error.
	AddFlag(ctx context.Context, view string, value bool) (bool, error)

	// StoreFlag stores a view and its aggregate value and returns the created
	// record. A malformed view fails with ErrFlagViewMalformed.
	StoreFlag(ctx context.Context, view string, value bool) (*entity.FlagRecord, error)

	// GetFlagID returns the ID of the newest record with exactly this view
	GetFlagID(ctx context.Context, view string) (int64, error)

	// GetFlag returns the stored view and value. A missing record yields the zero snapshot.
	GetFlag(ctx context.Context, id int64) (entity.FlagSnapshot, error)

	// BuildFlag builds a flag set from input, stores it and returns the record
	BuildFlag(ctx context.Context, input *FlagBuildInput) (*entity.FlagRecord, error)
}
