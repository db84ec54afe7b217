package notify_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/adapters/notify"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const eventTimeout = 5 * time.Second

func newNotifier(t *testing.T) *notify.Notifier {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	n := notify.NewNotifier(logger)
	t.Cleanup(func() { _ = n.Close() })
	return n
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func next(t *testing.T, sub ports.Subscription) ports.WatchEvent {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return event
	case <-time.After(eventTimeout):
		require.FailNow(t, "timed out waiting for a notification")
		return ports.WatchEvent{}
	}
}

func TestNotifier_WatchMissingFile(t *testing.T) {
	n := newNotifier(t)

	sub, err := n.Watch(filepath.Join(t.TempDir(), "missing.go"))

	require.Error(t, err)
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, domain.ErrWatchTargetMissing)
}

func TestNotifier_WriteIsChange(t *testing.T) {
	n := newNotifier(t)
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "package main")

	sub, err := n.Watch(path)
	require.NoError(t, err)

	writeFile(t, path, "package main // edited")

	event := next(t, sub)
	assert.Equal(t, path, event.Path)
	assert.Equal(t, ports.OpChange, event.Operation)

	content, err := n.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package main // edited", string(content))
}

func TestNotifier_RemoveIsRename(t *testing.T) {
	n := newNotifier(t)
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "package main")

	sub, err := n.Watch(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	// Some platforms report an attribute change before the removal.
	for {
		event := next(t, sub)
		if event.Operation == ports.OpRename {
			break
		}
	}
	require.NoError(t, sub.Stop())
}

func TestNotifier_StopClosesEvents(t *testing.T) {
	n := newNotifier(t)
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "package main")

	sub, err := n.Watch(path)
	require.NoError(t, err)

	require.NoError(t, sub.Stop())
	require.NoError(t, sub.Stop())

	_, ok := <-sub.Events()
	assert.False(t, ok)
}

func TestNotifier_Close(t *testing.T) {
	n := newNotifier(t)
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "package main")

	sub, err := n.Watch(path)
	require.NoError(t, err)

	require.NoError(t, n.Close())
	require.NoError(t, n.Close())

	_, ok := <-sub.Events()
	assert.False(t, ok)

	_, err = n.Watch(path)
	assert.ErrorIs(t, err, domain.ErrNotifierClosed)
}

func TestNotifier_CloseWithoutWatches(t *testing.T) {
	n := notify.NewNotifier(nil)
	assert.NoError(t, n.Close())
}
