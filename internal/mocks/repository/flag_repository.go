// Package repository provides testify mocks for the domain repository interfaces.
package repository

import (
	"context"

	"flagpole/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockFlagRepository is a mock implementation of repository.FlagRepository.
type MockFlagRepository struct {
	mock.Mock
}

// NewMockFlagRepository creates a mock and asserts its expectations on cleanup.
func NewMockFlagRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFlagRepository {
	m := &MockFlagRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFlagRepository) CreateFlag(ctx context.Context, record *entity.FlagRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockFlagRepository) FindLatestIDByView(ctx context.Context, view string) (int64, error) {
	args := m.Called(ctx, view)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlagRepository) FindFlagByID(ctx context.Context, id int64) (*entity.FlagRecord, error) {
	args := m.Called(ctx, id)

	record, _ := args.Get(0).(*entity.FlagRecord)

	return record, args.Error(1)
}
