package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rewatch/internal/app"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	logger   *mocks.MockLogger
	bundler  *mocks.MockBundler
	provider ComponentProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:  mocks.NewMockConfigLoader(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		bundler: mocks.NewMockBundler(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	application := app.New(
		f.loader,
		f.bundler,
		mocks.NewMockNotifier(ctrl),
		mocks.NewMockSelfBuildConsumer(ctrl),
		mocks.NewMockVersionSource(ctrl),
		f.logger,
	).WithOutput(new(bytes.Buffer), new(bytes.Buffer))

	f.provider = func(_ context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: f.logger}, nil
	}
	return f
}

func TestRun_Version(t *testing.T) {
	f := newFixture(t)
	stdout := new(bytes.Buffer)

	code := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), f.provider)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "rewatch version")
}

func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)
	provider := func(_ context.Context) (*app.Components, error) {
		return nil, errors.New("graph failed")
	}

	code := run(context.Background(), []string{"build"}, new(bytes.Buffer), stderr, provider)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: graph failed\n", stderr.String())
}

func TestRun_LogsSetupErrors(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	code := run(context.Background(), []string{"build", "--ci"}, new(bytes.Buffer), new(bytes.Buffer), f.provider)
	assert.Equal(t, 1, code)
}

func TestRun_FailedBuildIsNotLoggedTwice(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(&domain.Config{
		Options: domain.Options{Cmd: []string{"false"}},
	}, nil)
	f.bundler.EXPECT().Bundle(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCommandFailed)

	code := run(context.Background(), []string{"build", "--ci"}, new(bytes.Buffer), new(bytes.Buffer), f.provider)
	assert.Equal(t, 1, code)
}
