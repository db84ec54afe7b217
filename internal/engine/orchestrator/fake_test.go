package orchestrator_test

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.trai.ch/rewatch/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

// fakeBundler hands out numbered bundles. Call n (1-based) can be held on a
// gate or made to fail.
type fakeBundler struct {
	mu       sync.Mutex
	configs  []domain.BuildConfig
	modules  []domain.Module
	gates    map[int]chan struct{}
	failures map[int]error

	writes     []domain.Options
	writeGates map[string]chan struct{}
	writeErr   error
}

func newFakeBundler(modules ...domain.Module) *fakeBundler {
	return &fakeBundler{
		modules:    modules,
		gates:      make(map[int]chan struct{}),
		failures:   make(map[int]error),
		writeGates: make(map[string]chan struct{}),
	}
}

func (b *fakeBundler) Bundle(_ context.Context, cfg domain.BuildConfig) (ports.Bundle, error) {
	b.mu.Lock()
	b.configs = append(b.configs, cfg)
	n := len(b.configs)
	gate := b.gates[n]
	err := b.failures[n]
	modules := b.modules
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &fakeBundle{owner: b, cache: fmt.Sprintf("cache-%d", n), modules: modules}, nil
}

// hold makes bundle call n block until the returned gate is closed.
func (b *fakeBundler) hold(n int) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	gate := make(chan struct{})
	b.gates[n] = gate
	return gate
}

func (b *fakeBundler) fail(n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[n] = err
}

func (b *fakeBundler) calls() []domain.BuildConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.BuildConfig(nil), b.configs...)
}

func (b *fakeBundler) written() []domain.Options {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Options(nil), b.writes...)
}

type fakeBundle struct {
	owner   *fakeBundler
	cache   domain.Cache
	modules []domain.Module
}

func (f *fakeBundle) Modules() []domain.Module { return f.modules }

func (f *fakeBundle) Cache() domain.Cache { return f.cache }

func (f *fakeBundle) Write(_ context.Context, opts domain.Options) error {
	f.owner.mu.Lock()
	f.owner.writes = append(f.owner.writes, opts)
	gate := f.owner.writeGates[opts.Dest]
	err := f.owner.writeErr
	f.owner.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

// fakeNotifier serves files from memory and lets tests emit notifications.
type fakeNotifier struct {
	mu       sync.Mutex
	files    map[string]string
	subs     map[string]*fakeSubscription
	watchErr error
}

func newFakeNotifier(files map[string]string) *fakeNotifier {
	return &fakeNotifier{files: files, subs: make(map[string]*fakeSubscription)}
}

func (n *fakeNotifier) Watch(path string) (ports.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.watchErr != nil {
		return nil, n.watchErr
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
	n.files[path] = content
	sub := n.subs[path]
	n.mu.Unlock()
	sub.send(ports.WatchEvent{Path: path, Operation: ports.OpChange})
}

func (n *fakeNotifier) remove(path string) {
	n.mu.Lock()
	delete(n.files, path)
	sub := n.subs[path]
	n.mu.Unlock()
	sub.send(ports.WatchEvent{Path: path, Operation: ports.OpRename})
}

type fakeSubscription struct {
	mu      sync.Mutex
	events  chan ports.WatchEvent
	stopped bool
}

func (s *fakeSubscription) Events() <-chan ports.WatchEvent { return s.events }

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

// eventLog drains an event stream.
type eventLog struct {
	mu     sync.Mutex
	events []domain.Event
	closed bool
}

func collect(ch <-chan domain.Event) *eventLog {
	l := &eventLog{}
	go func() {
		for e := range ch {
			l.mu.Lock()
			l.events = append(l.events, e)
			l.mu.Unlock()
		}
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
	}()
	return l
}

func (l *eventLog) all() []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Event(nil), l.events...)
}

func (l *eventLog) codes() []domain.EventCode {
	events := l.all()
	codes := make([]domain.EventCode, len(events))
	for i, e := range events {
		codes[i] = e.Code
	}
	return codes
}

func (l *eventLog) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func newTracer(t *testing.T, ctrl *gomock.Controller) *mocks.MockTracer {
	t.Helper()
	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()
	return tracer
}

// harness runs an Orchestrator in the background of a synctest bubble.
type harness struct {
	orch     *orchestrator.Orchestrator
	bundler  *fakeBundler
	notifier *fakeNotifier
	log      *eventLog
	cancel   context.CancelFunc
	done     chan error
}

func newHarness(
	t *testing.T,
	bundler *fakeBundler,
	notifier *fakeNotifier,
	options domain.Options,
	opts ...orchestrator.Option,
) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	orch, err := orchestrator.New(bundler, notifier, logger, newTracer(t, ctrl), options, opts...)
	require.NoError(t, err)

	return &harness{
		orch:     orch,
		bundler:  bundler,
		notifier: notifier,
		log:      collect(orch.Events()),
		done:     make(chan error, 1),
	}
}

func (h *harness) start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		h.done <- h.orch.Run(ctx)
	}()
	synctest.Wait()
}

// stop cancels the run and returns Run's result once the stream is drained.
func (h *harness) stop() error {
	h.cancel()
	err := <-h.done
	synctest.Wait()
	return err
}
