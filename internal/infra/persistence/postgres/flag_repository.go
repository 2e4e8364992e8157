// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"flagpole/internal/domain/entity"
	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/domain/repository"
	"flagpole/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// flagRepository implements the repository.FlagRepository interface.
type flagRepository struct {
	db *gorm.DB
}

// NewFlagRepository is the constructor for flagRepository.
func NewFlagRepository(db *gorm.DB) repository.FlagRepository {
	return &flagRepository{
		db: db,
	}
}

// CreateFlag persists a new flag record.
func (repo *flagRepository) CreateFlag(ctx context.Context, record *entity.FlagRecord) error {
	flagM := fromFlagDomain(record)

	if err := repo.db.WithContext(ctx).Create(flagM).Error; err != nil {
		if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
			return domainerrors.ErrFlagViewMalformed.WrapMessage("flag record rejected by database")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create flag")
	}

	record.ID = flagM.ID
	record.CreatedAt = flagM.CreatedAt

	return nil
}

// FindLatestIDByView returns the newest record ID whose view matches exactly.
func (repo *flagRepository) FindLatestIDByView(ctx context.Context, view string) (int64, error) {
	var flagM model.MultipleBinaryFlagModel

	if err := repo.db.WithContext(ctx).
		Select("id").
		Where("flag_view = ?", view).
		Order("id DESC").
		Take(&flagM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, repository.ErrFlagNotFound
		}

		return 0, errors.Wrap(err, "failed to find flag by view")
	}

	return flagM.ID, nil
}

// FindFlagByID retrieves a flag record by its ID.
func (repo *flagRepository) FindFlagByID(ctx context.Context, id int64) (*entity.FlagRecord, error) {
	var flagM model.MultipleBinaryFlagModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&flagM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFlagNotFound
		}

		return nil, errors.Wrap(err, "failed to find flag by ID")
	}

	return toFlagDomain(&flagM), nil
}

// --- Mapper Functions ---

// toFlagDomain converts a GORM MultipleBinaryFlagModel to a domain FlagRecord.
func toFlagDomain(data *model.MultipleBinaryFlagModel) *entity.FlagRecord {
	if data == nil {
		return nil
	}

	return &entity.FlagRecord{
		ID:        data.ID,
		View:      data.View,
		Value:     data.Value,
		CreatedAt: data.CreatedAt,
	}
}

// fromFlagDomain converts a domain FlagRecord to a GORM MultipleBinaryFlagModel.
func fromFlagDomain(data *entity.FlagRecord) *model.MultipleBinaryFlagModel {
	if data == nil {
		return nil
	}

	return &model.MultipleBinaryFlagModel{
		ID:        data.ID,
		View:      data.View,
		Value:     data.Value,
		CreatedAt: data.CreatedAt,
	}
}
