package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/frameconv/internal/app"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newComponents(t *testing.T) (*app.Components, *mocks.MockServiceConnector, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockConnector := mocks.NewMockServiceConnector(ctrl)
	application := app.New(
		mocks.NewMockConfigLoader(ctrl),
		mocks.NewMockCalibrationStore(ctrl),
		nil,
		nil,
		mocks.NewMockWatcher(ctrl),
		mockConnector,
		mockLogger,
	)
	return &app.Components{App: application, Logger: mockLogger}, mockConnector, mockLogger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components, _, _ := newComponents(t)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	components, connector, logger := newComponents(t)
	unavailable := zerr.With(zerr.Wrap(domain.ErrServiceUnavailable, "connection refused"), "socket", "fc.sock")
	connector.EXPECT().Connect(gomock.Any(), "fc.sock").Return(nil, unavailable)
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	})

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"status", "--socket", "fc.sock"}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Cleanup verifies that the provider cleanup runs once the command returns.
func TestRun_Cleanup(t *testing.T) {
	components, _, _ := newComponents(t)
	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() { cleaned = true }, nil
	}

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.True(t, cleaned)
}
