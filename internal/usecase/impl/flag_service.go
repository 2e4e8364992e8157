package impl

import (
	"context"
	"log/slog"

	"flagpole/config"
	"flagpole/internal/domain/entity"
	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/domain/repository"
	"flagpole/internal/errors"
	"flagpole/internal/usecase"
)

type flagService struct {
	flagRepo repository.FlagRepository
	rule     entity.AggregateRule
	maxSize  int
	logger   *slog.Logger
}

// NewFlagService creates a new flag service instance
func NewFlagService(flagRepo repository.FlagRepository, cfg *config.Config, logger *slog.Logger) (usecase.FlagUsecase, error) {
	ruleName, maxSize := "", 0
	if cfg != nil && cfg.Flags != nil {
		ruleName = cfg.Flags.AggregateRule
		maxSize = cfg.Flags.MaxSize
	}

	rule, err := entity.ParseAggregateRule(ruleName)
	if err != nil {
		return nil, errors.Wrap(err, "flags.aggregateRule")
	}

	return &flagService{
		flagRepo: flagRepo,
		rule:     rule,
		maxSize:  maxSize,
		logger:   logger,
	}, nil
}

// NewFlag creates a flag set using the configured aggregate rule
func (s *flagService) NewFlag(size int, initial bool) (*entity.MultipleBinaryFlag, error) {
	flag, err := entity.NewMultipleBinaryFlag(size,
		entity.WithInitialValue(initial),
		entity.WithAggregateRule(s.rule),
		entity.WithMaxSize(s.maxSize),
	)
	if err != nil {
		return nil, domainerrors.ErrFlagSizeInvalid.WrapMessage(err.Error())
	}

	return flag, nil
}

// AddFlag stores a view and value, reporting malformed input as false
func (s *flagService) AddFlag(ctx context.Context, view string, value bool) (bool, error) {
	if _, err := s.StoreFlag(ctx, view, value); err != nil {
		if errors.Is(err, domainerrors.ErrFlagViewMalformed) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// StoreFlag stores a view and value and returns the created record
func (s *flagService) StoreFlag(ctx context.Context, view string, value bool) (*entity.FlagRecord, error) {
	if view == "" {
		s.logger.DebugContext(ctx, "Rejected empty flag view")

		return nil, domainerrors.ErrFlagViewMalformed.WrapMessage("empty flag view")
	}
	if err := entity.ValidateFlagView(view); err != nil {
		s.logger.DebugContext(ctx, "Rejected malformed flag view", slog.String("error", err.Error()))

		return nil, domainerrors.ErrFlagViewMalformed.WrapMessage(err.Error())
	}

	record := &entity.FlagRecord{View: view, Value: &value}
	if err := s.flagRepo.CreateFlag(ctx, record); err != nil {
		if errors.Is(err, domainerrors.ErrFlagViewMalformed) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to create flag")
	}

	s.logger.DebugContext(ctx, "Flag stored",
		slog.Int64("id", record.ID),
		slog.Int("size", len(view)),
		slog.Bool("value", value),
	)

	return record, nil
}

// GetFlagID returns the ID of the newest record with exactly this view
func (s *flagService) GetFlagID(ctx context.Context, view string) (int64, error) {
	id, err := s.flagRepo.FindLatestIDByView(ctx, view)
	if err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			return 0, domainerrors.ErrFlagNotFound.WrapMessage("no flag with this view")
		}

		return 0, errors.Wrap(err, "failed to find flag by view")
	}

	return id, nil
}

// GetFlag returns the stored view and value, or the zero snapshot when absent
func (s *flagService) GetFlag(ctx context.Context, id int64) (entity.FlagSnapshot, error) {
	record, err := s.flagRepo.FindFlagByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			return entity.FlagSnapshot{}, nil
		}

		return entity.FlagSnapshot{}, errors.Wrap(err, "failed to find flag by ID")
	}

	return entity.FlagSnapshot{View: record.View, Value: record.Value}, nil
}

// BuildFlag builds a flag set from input, stores it and returns the record
func (s *flagService) BuildFlag(ctx context.Context, input *usecase.FlagBuildInput) (*entity.FlagRecord, error) {
	flag, err := s.NewFlag(input.Size, input.Initial)
	if err != nil {
		return nil, err
	}
	if flag.Len() == 0 {
		return nil, domainerrors.ErrFlagEmpty.WrapMessage("size 0")
	}

	for _, index := range input.Reset {
		if err := flag.ResetFlag(index); err != nil {
			return nil, domainerrors.ErrFlagIndexOutOfRange.WrapMessage(err.Error())
		}
	}
	for _, index := range input.Set {
		if err := flag.SetFlag(index); err != nil {
			return nil, domainerrors.ErrFlagIndexOutOfRange.WrapMessage(err.Error())
		}
	}

	value := flag.GetFlag()
	record := &entity.FlagRecord{View: flag.String(), Value: &value}
	if err := s.flagRepo.CreateFlag(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to create flag")
	}

	return record, nil
}
