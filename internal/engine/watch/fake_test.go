package watch_test

import (
	"io/fs"
	"sync"

	"go.trai.ch/rewatch/internal/core/ports"
)

// fakeNotifier is an in-memory ports.Notifier.
type fakeNotifier struct {
	mu       sync.Mutex
	files    map[string]string
	subs     map[string]*fakeSubscription
	watchErr map[string]error
	watched  []string
}

func newFakeNotifier(files map[string]string) *fakeNotifier {
	return &fakeNotifier{
		files:    files,
		subs:     make(map[string]*fakeSubscription),
		watchErr: make(map[string]error),
	}
}

func (n *fakeNotifier) Watch(path string) (ports.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.watched = append(n.watched, path)
	if err, ok := n.watchErr[path]; ok {
		return nil, err
	}
	if _, ok := n.files[path]; !ok {
		return nil, &fs.PathError{Op: "watch", Path: path, Err: fs.ErrNotExist}
	}
	sub := &fakeSubscription{events: make(chan ports.WatchEvent, 16)}
	n.subs[path] = sub
	return sub, nil
}

func (n *fakeNotifier) ReadFile(path string) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	content, ok := n.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func (n *fakeNotifier) write(path, content string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.files[path] = content
}

func (n *fakeNotifier) remove(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.files, path)
}

func (n *fakeNotifier) emit(path string, op ports.WatchOp) {
	n.mu.Lock()
	sub := n.subs[path]
	n.mu.Unlock()
	sub.send(ports.WatchEvent{Path: path, Operation: op})
}

func (n *fakeNotifier) subscription(path string) *fakeSubscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.subs[path]
}

func (n *fakeNotifier) watchCalls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.watched...)
}

type fakeSubscription struct {
	mu      sync.Mutex
	events  chan ports.WatchEvent
	stopped bool
}

func (s *fakeSubscription) Events() <-chan ports.WatchEvent {
	return s.events
}

func (s *fakeSubscription) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.events)
	}
	return nil
}

func (s *fakeSubscription) send(e ports.WatchEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.events <- e
	}
}

func (s *fakeSubscription) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// recorder collects callback invocations in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(kind string) func(string) {
	return func(id string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, kind+":"+id)
	}
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
