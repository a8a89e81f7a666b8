package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/frontbundle/internal/runner"
)

// MockCommandRunner is a mock implementation of bundler.CommandRunner.
type MockCommandRunner struct {
	mock.Mock
}

//nolint:revive
func (m *MockCommandRunner) Run(ctx context.Context, cmd runner.Command) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

//nolint:revive
func (m *MockCommandRunner) Output(ctx context.Context, cmd runner.Command) ([]byte, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
