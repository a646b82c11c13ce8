package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"go.trai.ch/pmake/internal/app"
	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports/mocks"
)

func newProvider(loader *mocks.MockConfigLoader, logger *mocks.MockLogger) ComponentProvider {
	application := app.New(loader, nil, nil, nil, logger, nil)
	return func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: logger}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := newProvider(mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, stdout, stderr, provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "pmake version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load(domain.DefaultRuleFile).Return(nil, domain.ErrConfigReadFailed)
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
	})

	exitCode := run(t.Context(), []string{"rules"}, new(bytes.Buffer), new(bytes.Buffer), newProvider(loader, logger))

	assert.Equal(t, 1, exitCode)
}
