package advisory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.trai.ch/rewatch/internal/engine/advisory"
	"go.uber.org/mock/gomock"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{name: "newer patch", current: "v1.2.3", latest: "v1.2.4", want: true},
		{name: "newer without prefix", current: "1.2.3", latest: "1.10.0", want: true},
		{name: "equal", current: "v1.2.3", latest: "1.2.3", want: false},
		{name: "older", current: "v2.0.0", latest: "v1.9.9", want: false},
		{name: "prerelease is older than release", current: "v1.0.0", latest: "v1.0.0-rc.1", want: false},
		{name: "dev build", current: "dev", latest: "v1.0.0", want: false},
		{name: "garbage latest", current: "v1.0.0", latest: "not-a-version", want: false},
		{name: "empty latest", current: "v1.0.0", latest: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, advisory.Newer(tt.current, tt.latest))
		})
	}
}

func TestChecker_WarnsWhenOutdated(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockVersionSource(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	source.EXPECT().Latest(gomock.Any()).Return("v0.4.0", nil).Times(1)
	logger.EXPECT().Warn(
		"rewatch is out of date (you have 0.3.1, latest version is 0.4.0). " +
			"Update it with go install go.trai.ch/rewatch/cmd/rewatch@latest",
	).Times(1)

	checker := advisory.NewChecker(source, logger, "v0.3.1")
	checker.Check(context.Background())
	// Later calls are no-ops.
	checker.Check(context.Background())
}

func TestChecker_Silent(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		err     error
		lookups int
	}{
		{name: "up to date", current: "v0.4.0", latest: "v0.4.0", lookups: 1},
		{name: "ahead of latest", current: "v0.5.0", latest: "v0.4.0", lookups: 1},
		{name: "lookup fails", current: "v0.3.0", err: errors.New("dial tcp: no such host"), lookups: 1},
		{name: "invalid latest", current: "v0.3.0", latest: "latest", lookups: 1},
		{name: "dev build skips lookup", current: "dev", lookups: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := mocks.NewMockVersionSource(ctrl)
			// No Warn expectation: any call fails the test.
			logger := mocks.NewMockLogger(ctrl)

			source.EXPECT().Latest(gomock.Any()).Return(tt.latest, tt.err).Times(tt.lookups)

			advisory.NewChecker(source, logger, tt.current).Check(context.Background())
		})
	}
}
