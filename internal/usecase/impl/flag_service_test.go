package impl

import (
	"context"
	"math"
	"strings"
	"testing"

	"flagpole/config"
	"flagpole/internal/domain/entity"
	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/domain/repository"
	"flagpole/internal/infra/persistence/memory"
	mockRepo "flagpole/internal/mocks/repository"
	"flagpole/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// flagServiceFixtures holds all test dependencies for flag service tests.
type flagServiceFixtures struct {
	service  usecase.FlagUsecase
	flagRepo *mockRepo.MockFlagRepository
}

func createTestFlagService(t *testing.T) flagServiceFixtures {
	flagRepo := mockRepo.NewMockFlagRepository(t)
	service, err := NewFlagService(flagRepo, newTestConfig("all"), newDiscardLogger())
	require.NoError(t, err)

	return flagServiceFixtures{
		service:  service,
		flagRepo: flagRepo,
	}
}

// createMemoryFlagService wires the service to the in-memory repository.
func createMemoryFlagService(t *testing.T) usecase.FlagUsecase {
	service, err := NewFlagService(memory.NewFlagRepository(), newTestConfig("all"), newDiscardLogger())
	require.NoError(t, err)

	return service
}

func TestFlagService_AddFlag(t *testing.T) {
	service := createMemoryFlagService(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		build func(t *testing.T) *entity.MultipleBinaryFlag
	}{
		{"true", func(t *testing.T) *entity.MultipleBinaryFlag {
			flag, err := service.NewFlag(10, true)
			require.NoError(t, err)

			return flag
		}},
		{"false", func(t *testing.T) *entity.MultipleBinaryFlag {
			flag, err := service.NewFlag(10, false)
			require.NoError(t, err)

			return flag
		}},
		{"mixed", func(t *testing.T) *entity.MultipleBinaryFlag {
			flag, err := service.NewFlag(10, false)
			require.NoError(t, err)
			for i := 0; i < 10; i += 2 {
				require.NoError(t, flag.SetFlag(i))
			}

			return flag
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			flag := tc.build(t)

			ok, err := service.AddFlag(ctx, flag.String(), flag.GetFlag())
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestFlagService_AddFlag_ManualInput(t *testing.T) {
	service := createMemoryFlagService(t)
	ctx := context.Background()

	ok, err := service.AddFlag(ctx, "TTFFTFTF", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.AddFlag(ctx, "TTTTTT", true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFlagService_AddFlag_MalformedReturnsFalse(t *testing.T) {
	fx := createTestFlagService(t)
	ctx := context.Background()

	for _, view := range []string{"broken input", "", "ttff", "TF-T"} {
		ok, err := fx.service.AddFlag(ctx, view, true)
		require.NoError(t, err, "view %q", view)
		assert.False(t, ok, "view %q", view)
	}

	fx.flagRepo.AssertNotCalled(t, "CreateFlag", mock.Anything, mock.Anything)
}

func TestFlagService_AddFlag_RejectedByStore(t *testing.T) {
	fx := createTestFlagService(t)
	ctx := context.Background()

	fx.flagRepo.On("CreateFlag", ctx, mock.AnythingOfType("*entity.FlagRecord")).
		Return(domainerrors.ErrFlagViewMalformed.WrapMessage("flag record rejected by database")).
		Once()

	ok, err := fx.service.AddFlag(ctx, "TF", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlagService_AddFlag_DatabaseError(t *testing.T) {
	fx := createTestFlagService(t)
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	fx.flagRepo.On("CreateFlag", ctx, mock.MatchedBy(func(record *entity.FlagRecord) bool {
		return record.View == "TF" && record.Value != nil && !*record.Value
	})).Return(domainerrors.NewDatabaseExecuteError(dbErr, "failed to create flag")).Once()

	ok, err := fx.service.AddFlag(ctx, "TF", false)
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dbErr))
}

func TestFlagService_RoundTrip(t *testing.T) {
	service := createMemoryFlagService(t)
	ctx := context.Background()

	mixed := func() *entity.MultipleBinaryFlag {
		flag, err := service.NewFlag(10, true)
		require.NoError(t, err)
		for i := 0; i < 10; i += 2 {
			require.NoError(t, flag.ResetFlag(i))
		}
		for i := 0; i < 10; i += 3 {
			require.NoError(t, flag.SetFlag(i))
		}

		return flag
	}

	flags := []*entity.MultipleBinaryFlag{mixed()}
	for _, size := range []int{10, 10000} {
		for _, initial := range []bool{true, false} {
			flag, err := service.NewFlag(size, initial)
			require.NoError(t, err)
			flags = append(flags, flag)
		}
	}

	for _, flag := range flags {
		view := flag.String()
		value := flag.GetFlag()

		ok, err := service.AddFlag(ctx, view, value)
		require.NoError(t, err)
		require.True(t, ok)

		id, err := service.GetFlagID(ctx, view)
		require.NoError(t, err)

		snapshot, err := service.GetFlag(ctx, id)
		require.NoError(t, err)
		assert.True(t, snapshot.Found())
		assert.Equal(t, view, snapshot.View)
		require.NotNil(t, snapshot.Value)
		assert.Equal(t, value, *snapshot.Value)
	}
}

func TestFlagService_GetFlag_NotFoundIsAbsent(t *testing.T) {
	fx := createTestFlagService(t)
	ctx := context.Background()

	fx.flagRepo.On("FindFlagByID", ctx, int64(7)).Return(nil, repository.ErrFlagNotFound).Once()

	snapshot, err := fx.service.GetFlag(ctx, 7)
	require.NoError(t, err)
	assert.False(t, snapshot.Found())
	assert.Equal(t, "", snapshot.View)
	assert.Nil(t, snapshot.Value)
}

func TestFlagService_GetFlag_NullValue(t *testing.T) {
	fx := createTestFlagService(t)
	ctx := context.Background()

	fx.flagRepo.On("FindFlagByID", ctx, int64(3)).Return(&entity.FlagRecord{ID: 3, View: "TF"}, nil).Once()

	snapshot, err := fx.service.GetFlag(ctx, 3)
	require.NoError(t, err)
	assert.True(t, snapshot.Found())
	assert.Nil(t, snapshot.Value)
}

func TestFlagService_GetFlagID_NotFound(t *testing.T) {
	fx := createTestFlagService(t)
	ctx := context.Background()

	fx.flagRepo.On("FindLatestIDByView", ctx, "TTT").Return(int64(0), repository.ErrFlagNotFound).Once()

	_, err := fx.service.GetFlagID(ctx, "TTT")
	assert.True(t, errors.Is(err, domainerrors.ErrFlagNotFound))
}

func TestFlagService_BuildFlag(t *testing.T) {
	service := createMemoryFlagService(t)
	ctx := context.Background()

	record, err := service.BuildFlag(ctx, &usecase.FlagBuildInput{
		Size:    10,
		Initial: true,
		Reset:   []int{0, 2, 4, 6, 8},
		Set:     []int{0, 3, 6, 9},
	})
	require.NoError(t, err)
	assert.Equal(t, "TTFTFTTTFT", record.View)
	require.NotNil(t, record.Value)
	assert.False(t, *record.Value)

	snapshot, err := service.GetFlag(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.View, snapshot.View)
}

func TestFlagService_BuildFlag_Errors(t *testing.T) {
	service := createMemoryFlagService(t)
	ctx := context.Background()

	_, err := service.BuildFlag(ctx, &usecase.FlagBuildInput{Size: -1})
	assert.True(t, errors.Is(err, domainerrors.ErrFlagSizeInvalid))

	_, err = service.BuildFlag(ctx, &usecase.FlagBuildInput{Size: 0})
	assert.True(t, errors.Is(err, domainerrors.ErrFlagEmpty))
	assert.False(t, errors.Is(err, domainerrors.ErrFlagSizeInvalid))

	_, err = service.BuildFlag(ctx, &usecase.FlagBuildInput{Size: 4, Set: []int{4}})
	assert.True(t, errors.Is(err, domainerrors.ErrFlagIndexOutOfRange))
}

func TestFlagService_SizeLimitFromConfig(t *testing.T) {
	cfg := newTestConfig("all")
	cfg.Flags.MaxSize = 16
	service, err := NewFlagService(memory.NewFlagRepository(), cfg, newDiscardLogger())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = service.BuildFlag(ctx, &usecase.FlagBuildInput{Size: 17})
	assert.True(t, errors.Is(err, domainerrors.ErrFlagSizeInvalid))

	_, err = service.NewFlag(math.MaxInt, false)
	assert.True(t, errors.Is(err, domainerrors.ErrFlagSizeInvalid))

	record, err := service.BuildFlag(ctx, &usecase.FlagBuildInput{Size: 16})
	require.NoError(t, err)
	assert.Len(t, record.View, 16)
}

func TestFlagService_StoreFlag(t *testing.T) {
	service := createMemoryFlagService(t)
	ctx := context.Background()

	first, err := service.StoreFlag(ctx, "TT", true)
	require.NoError(t, err)
	second, err := service.StoreFlag(ctx, "TT", false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	require.NotNil(t, first.Value)
	assert.True(t, *first.Value)

	_, err = service.StoreFlag(ctx, "TX", true)
	assert.True(t, errors.Is(err, domainerrors.ErrFlagViewMalformed))

	_, err = service.StoreFlag(ctx, "", true)
	assert.True(t, errors.Is(err, domainerrors.ErrFlagViewMalformed))
}

func TestNewFlagService_AggregateRuleFromConfig(t *testing.T) {
	service, err := NewFlagService(memory.NewFlagRepository(), newTestConfig("majority"), newDiscardLogger())
	require.NoError(t, err)

	flag, err := service.NewFlag(5, true)
	require.NoError(t, err)
	require.NoError(t, flag.ResetFlag(0))
	require.NoError(t, flag.ResetFlag(1))
	assert.True(t, flag.GetFlag(), "3 of 5 bits set is a majority")

	_, err = NewFlagService(memory.NewFlagRepository(), newTestConfig("median"), newDiscardLogger())
	assert.True(t, errors.Is(err, entity.ErrUnknownAggregateRule))
}

func TestFlagService_LongView(t *testing.T) {
	service := createMemoryFlagService(t)
	ctx := context.Background()
	view := strings.Repeat("T", 10000)

	ok, err := service.AddFlag(ctx, view, true)
	require.NoError(t, err)
	require.True(t, ok)

	id, err := service.GetFlagID(ctx, view)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func newTestConfig(aggregateRule string) *config.Config {
	return &config.Config{
		Flags: &config.FlagsConfig{AggregateRule: aggregateRule},
	}
}
