// Package service provides testify mocks for the domain service interfaces.
package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFileWorker is a mock implementation of service.FileWorker.
type MockFileWorker struct {
	mock.Mock
}

// NewMockFileWorker creates a mock and asserts its expectations on cleanup.
func NewMockFileWorker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFileWorker {
	m := &MockFileWorker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFileWorker) MkDir(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)

	return args.String(0), args.Error(1)
}

func (m *MockFileWorker) Write(ctx context.Context, content, key string) error {
	return m.Called(ctx, content, key).Error(0)
}

func (m *MockFileWorker) TryWrite(ctx context.Context, content, key string, tries int) error {
	return m.Called(ctx, content, key, tries).Error(0)
}

func (m *MockFileWorker) ReadAll(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)

	return args.String(0), args.Error(1)
}

func (m *MockFileWorker) ReadLines(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)

	lines, _ := args.Get(0).([]string)

	return lines, args.Error(1)
}

func (m *MockFileWorker) TryCopy(ctx context.Context, from, to string, rewrite bool, tries int) error {
	return m.Called(ctx, from, to, rewrite, tries).Error(0)
}
