package watch

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// FileWatcher watches a single module file.
//
// Notifications are reduced to two outcomes: the content changed, or the file
// is gone. Notifiers may report one logical change several times, so a change
// only counts when the re-read content differs from the last snapshot.
type FileWatcher struct {
	id       string
	notifier ports.Notifier
	logger   ports.Logger
	sub      ports.Subscription

	// snapshot is only touched by the run goroutine.
	snapshot uint64

	onChange  func(id string)
	onDispose func(id string)

	stopOnce sync.Once
	stopErr  error
	done     chan struct{}
}

// NewFileWatcher subscribes to changes of the module's file.
//
// onDispose is called when the file is renamed or removed, right before
// onChange. A missing file yields an error matching domain.ErrWatchTargetMissing;
// every other subscription failure matches domain.ErrWatchFailed.
func NewFileWatcher(
	notifier ports.Notifier,
	logger ports.Logger,
	module domain.Module,
	onChange func(id string),
	onDispose func(id string),
) (*FileWatcher, error) {
	sub, err := notifier.Watch(module.ID)
	if err != nil {
		if errors.Is(err, domain.ErrWatchTargetMissing) {
			return nil, err
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(domain.ErrWatchTargetMissing, err)
		}
		return nil, errors.Join(domain.ErrWatchFailed, zerr.With(err, "path", module.ID))
	}

	w := &FileWatcher{
		id:        module.ID,
		notifier:  notifier,
		logger:    logger,
		sub:       sub,
		snapshot:  xxhash.Sum64String(module.Code),
		onChange:  onChange,
		onDispose: onDispose,
		done:      make(chan struct{}),
	}
	go w.run()

	return w, nil
}

// ID returns the module ID being watched.
func (w *FileWatcher) ID() string {
	return w.id
}

// Close stops the subscription without invoking any callback and waits for
// the watcher goroutine to exit.
func (w *FileWatcher) Close() error {
	err := w.stop()
	<-w.done
	return err
}

func (w *FileWatcher) stop() error {
	w.stopOnce.Do(func() {
		w.stopErr = w.sub.Stop()
	})
	return w.stopErr
}

func (w *FileWatcher) run() {
	defer close(w.done)

	for event := range w.sub.Events() {
		if event.Operation == ports.OpRename {
			w.remove()
			return
		}

		content, err := w.notifier.ReadFile(w.id)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Gone between the notification and the read.
				w.remove()
				return
			}
			w.logger.Error(zerr.With(zerr.Wrap(err, "failed to re-read watched file"), "path", w.id))
			continue
		}

		sum := xxhash.Sum64(content)
		if sum == w.snapshot {
			continue
		}
		w.snapshot = sum
		w.onChange(w.id)
	}
}

func (w *FileWatcher) remove() {
	if err := w.stop(); err != nil {
		w.logger.Error(zerr.With(zerr.Wrap(err, "failed to stop file subscription"), "path", w.id))
	}
	w.onDispose(w.id)
	w.onChange(w.id)
}
