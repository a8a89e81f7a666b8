package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockFileSystem is a mock implementation of bundler.FileSystem.
type MockFileSystem struct {
	mock.Mock
}

//nolint:revive
func (m *MockFileSystem) IsDir(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

//nolint:revive
func (m *MockFileSystem) Exists(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

//nolint:revive
func (m *MockFileSystem) RemoveAll(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

//nolint:revive
func (m *MockFileSystem) CopyDir(src, dst string) (int, error) {
	args := m.Called(src, dst)
	return args.Int(0), args.Error(1)
}

//nolint:revive
func (m *MockFileSystem) Digest(dir string) (string, error) {
	args := m.Called(dir)
	return args.String(0), args.Error(1)
}
