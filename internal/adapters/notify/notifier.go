// Package notify implements per-file change notifications on top of fsnotify.
package notify

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Notifier = (*Notifier)(nil)

const subscriptionBuffer = 8

// Notifier multiplexes one fsnotify watcher over many single-file subscriptions.
type Notifier struct {
	logger ports.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	subs      map[string]*subscription
	closed    bool
	done      chan struct{}
}

// NewNotifier creates a Notifier. The underlying fsnotify watcher is created
// on the first Watch call.
func NewNotifier(logger ports.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		subs:   make(map[string]*subscription),
	}
}

// Watch subscribes to notifications for path.
func (n *Notifier) Watch(path string) (ports.Subscription, error) {
	path = filepath.Clean(path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(domain.ErrWatchTargetMissing, err)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to stat watched file"), "path", path)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, domain.ErrNotifierClosed
	}
	if n.fsWatcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create fsnotify watcher")
		}
		n.fsWatcher = w
		n.done = make(chan struct{})
		go n.dispatch(w, n.done)
	}

	if old, ok := n.subs[path]; ok {
		old.close()
	}

	if err := n.fsWatcher.Add(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(domain.ErrWatchTargetMissing, err)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to add fsnotify watch"), "path", path)
	}

	sub := &subscription{
		notifier: n,
		path:     path,
		events:   make(chan ports.WatchEvent, subscriptionBuffer),
	}
	n.subs[path] = sub

	return sub, nil
}

// ReadFile returns the current content of path.
func (n *Notifier) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // paths come from the build graph
}

// Close stops every subscription and releases the fsnotify watcher.
func (n *Notifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	for path, sub := range n.subs {
		sub.close()
		delete(n.subs, path)
	}
	w, done := n.fsWatcher, n.done
	n.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}

func (n *Notifier) unsubscribe(sub *subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if current, ok := n.subs[sub.path]; !ok || current != sub {
		sub.close()
		return nil
	}
	delete(n.subs, sub.path)
	sub.close()

	if n.fsWatcher == nil || n.closed {
		return nil
	}
	// The watch is gone already when the file was removed or renamed.
	if err := n.fsWatcher.Remove(sub.path); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return zerr.With(zerr.Wrap(err, "failed to remove fsnotify watch"), "path", sub.path)
	}
	return nil
}

func (n *Notifier) dispatch(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			op, ok := convert(event.Op)
			if !ok {
				continue
			}
			n.deliver(filepath.Clean(event.Name), op)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			n.logger.Error(zerr.Wrap(err, "file system notification error"))
		}
	}
}

func (n *Notifier) deliver(path string, op ports.WatchOp) {
	n.mu.Lock()
	defer n.mu.Unlock()

	sub, ok := n.subs[path]
	if !ok {
		return
	}
	sub.send(ports.WatchEvent{Path: path, Operation: op})
}

// convert maps an fsnotify operation to a watch operation.
func convert(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ports.OpRename, true
	case op.Has(fsnotify.Write), op.Has(fsnotify.Create), op.Has(fsnotify.Chmod):
		return ports.OpChange, true
	default:
		return 0, false
	}
}

type subscription struct {
	notifier *Notifier
	path     string
	events   chan ports.WatchEvent

	// closed is guarded by the notifier's mutex.
	closed bool
}

func (s *subscription) Events() <-chan ports.WatchEvent {
	return s.events
}

func (s *subscription) Stop() error {
	return s.notifier.unsubscribe(s)
}

func (s *subscription) send(event ports.WatchEvent) {
	if s.closed {
		return
	}
	select {
	case s.events <- event:
	default:
		// A queued event already forces a re-read. Only a removal must not be lost.
		if event.Operation == ports.OpRename {
			s.replaceOldest(event)
		}
	}
}

// replaceOldest drops the oldest queued event to make room for event.
func (s *subscription) replaceOldest(event ports.WatchEvent) {
	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- event:
	default:
	}
}

func (s *subscription) close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}
