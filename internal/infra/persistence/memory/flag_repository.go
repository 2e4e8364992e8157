// Package memory contains an in-process implementation of the persistence layer.
// It backs the "memory" storage driver and stands in for PostgreSQL in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"flagpole/internal/domain/entity"
	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/domain/repository"
)

type flagRepository struct {
	mu      sync.RWMutex
	records []entity.FlagRecord // index i holds ID i+1
	latest  map[string]int64
	now     func() time.Time
}

// NewFlagRepository returns an empty in-memory FlagRepository.
func NewFlagRepository() repository.FlagRepository {
	return &flagRepository{
		latest: make(map[string]int64),
		now:    time.Now,
	}
}

func (repo *flagRepository) CreateFlag(ctx context.Context, record *entity.FlagRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.View == "" {
		return domainerrors.ErrFlagViewMalformed.WrapMessage("empty flag view")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored := entity.FlagRecord{
		ID:        int64(len(repo.records) + 1),
		View:      record.View,
		Value:     cloneBool(record.Value),
		CreatedAt: repo.now(),
	}
	repo.records = append(repo.records, stored)
	repo.latest[stored.View] = stored.ID

	record.ID = stored.ID
	record.CreatedAt = stored.CreatedAt

	return nil
}

func (repo *flagRepository) FindLatestIDByView(ctx context.Context, view string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.latest[view]
	if !ok {
		return 0, repository.ErrFlagNotFound
	}

	return id, nil
}

func (repo *flagRepository) FindFlagByID(ctx context.Context, id int64) (*entity.FlagRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if id < 1 || id > int64(len(repo.records)) {
		return nil, repository.ErrFlagNotFound
	}

	found := repo.records[id-1]
	found.Value = cloneBool(found.Value)

	return &found, nil
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v

	return &c
}
