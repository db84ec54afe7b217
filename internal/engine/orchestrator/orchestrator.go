// Package orchestrator schedules builds in response to file changes.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/engine/events"
	"go.trai.ch/rewatch/internal/engine/watch"
)

// Orchestrator runs the watch loop: it builds, watches every file of the last
// successful build and rebuilds when one of them changes.
//
// At most one build runs at a time. Changes that settle while a build is in
// flight are collapsed into exactly one follow-up build, started as soon as
// the current one completes.
type Orchestrator struct {
	mu sync.Mutex

	bundler  ports.Bundler
	logger   ports.Logger
	tracer   ports.Tracer
	consumer ports.SelfBuildConsumer
	options  domain.Options
	window   time.Duration

	registry  *watch.Registry
	debouncer *watch.Debouncer
	stream    *events.Stream
	machine   *buildMachine

	cache            domain.Cache
	rebuildScheduled bool
	closing          bool

	runCtx context.Context //nolint:containedctx // build goroutines outlive the call that spawned them
	fatal  chan error
	wg     sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebounce sets the quiet period that must pass after a change before a rebuild starts.
func WithDebounce(window time.Duration) Option {
	return func(o *Orchestrator) {
		if window > 0 {
			o.window = window
		}
	}
}

// WithSelfBuildConsumer hands successful bundles to consumer instead of
// writing them, when the options request a self-build.
func WithSelfBuildConsumer(consumer ports.SelfBuildConsumer) Option {
	return func(o *Orchestrator) {
		o.consumer = consumer
	}
}

// New creates an Orchestrator for the given base options.
func New(
	bundler ports.Bundler,
	notifier ports.Notifier,
	logger ports.Logger,
	tracer ports.Tracer,
	options domain.Options,
	opts ...Option,
) (*Orchestrator, error) {
	machine, err := newBuildMachine()
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		bundler: bundler,
		logger:  logger,
		tracer:  tracer,
		options: options.Clone(),
		window:  domain.DefaultDebounceWindow,
		stream:  events.NewStream(),
		machine: machine,
		runCtx:  context.Background(),
		fatal:   make(chan error, 1),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.registry = watch.NewRegistry(notifier, logger, o.Trigger)
	o.debouncer = watch.NewDebouncer(o.window, o.onSettled)

	return o, nil
}

// Events returns the lifecycle event stream. It is closed once Run or Once returns.
func (o *Orchestrator) Events() <-chan domain.Event {
	return o.stream.Events()
}

// Run publishes STARTING, starts the first build and keeps rebuilding on
// change until ctx is cancelled or watching fails.
//
// On return the in-flight build has completed, every watcher is closed and
// the event stream is closed. A non-nil error means a file could not be
// watched.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	o.runCtx = ctx
	o.mu.Unlock()

	o.stream.Publish(domain.NewEvent(domain.EventStarting))
	o.Build()

	var err error
	select {
	case <-ctx.Done():
	case err = <-o.fatal:
	}

	return o.shutdown(err)
}

// Once runs a single build cycle without watching, then closes the event stream.
// It returns the error of a failed cycle.
func (o *Orchestrator) Once(ctx context.Context) error {
	o.mu.Lock()
	o.runCtx = ctx
	if !o.machine.start() {
		o.mu.Unlock()
		return nil
	}
	o.closing = true
	cfg := domain.NewBuildConfig(o.options, o.cache)
	o.stream.Publish(domain.NewEvent(domain.EventBuildStart))
	o.mu.Unlock()

	event, err := o.cycle(ctx, cfg, true, false)
	if err == nil && event.Code == domain.EventError {
		err = event.Err
	}

	o.mu.Lock()
	o.stream.Publish(event)
	o.machine.finish()
	o.mu.Unlock()

	o.stream.Close()
	return err
}

// Build starts a build unless one is already running.
func (o *Orchestrator) Build() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.startLocked()
}

// Trigger reports a change of path. The rebuild starts once the debounce window settles.
func (o *Orchestrator) Trigger(path string) {
	o.debouncer.Notify(path)
}

func (o *Orchestrator) onSettled(paths []string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closing {
		return
	}
	o.logger.Info(fmt.Sprintf("change detected: %s", strings.Join(paths, ", ")))

	if o.machine.building() {
		o.rebuildScheduled = true
		return
	}
	o.rebuildScheduled = false
	o.startLocked()
}

func (o *Orchestrator) startLocked() {
	if o.closing || !o.machine.start() {
		return
	}

	o.stream.Publish(domain.NewEvent(domain.EventBuildStart))
	cfg := domain.NewBuildConfig(o.options, o.cache)
	initial := o.machine.started == 1
	ctx := context.WithoutCancel(o.runCtx)

	o.wg.Add(1)
	go o.build(ctx, cfg, initial)
}

func (o *Orchestrator) build(ctx context.Context, cfg domain.BuildConfig, initial bool) {
	defer o.wg.Done()

	event, fatal := o.cycle(ctx, cfg, initial, true)

	o.mu.Lock()
	defer o.mu.Unlock()

	if fatal != nil {
		o.closing = true
		o.machine.finish()
		select {
		case o.fatal <- fatal:
		default:
		}
		return
	}

	o.stream.Publish(event)
	o.machine.finish()

	if o.rebuildScheduled {
		o.rebuildScheduled = false
		o.startLocked()
	}
}

// cycle bundles, reconciles the watchers and writes the output. The returned
// event is BUILD_END or ERROR; a non-nil error is a watch failure that ends
// the loop.
func (o *Orchestrator) cycle(
	ctx context.Context,
	cfg domain.BuildConfig,
	initial bool,
	watching bool,
) (domain.Event, error) {
	ctx, span := o.tracer.Start(ctx, "build")
	defer span.End()
	span.SetAttribute("build.initial", initial)

	start := time.Now()

	bundle, err := o.bundler.Bundle(ctx, cfg)
	if err != nil {
		span.RecordError(err)
		return domain.ErrorEvent(err), nil
	}

	o.mu.Lock()
	o.cache = bundle.Cache()
	o.mu.Unlock()

	modules := bundle.Modules()
	span.SetAttribute("build.modules", len(modules))

	if watching {
		if err := o.registry.Reconcile(modules); err != nil {
			span.RecordError(err)
			return domain.Event{}, err
		}
	}

	if err := o.output(ctx, bundle); err != nil {
		span.RecordError(err)
		return domain.ErrorEvent(err), nil
	}

	return domain.BuildEndEvent(time.Since(start), initial), nil
}

// output hands the bundle to the self-build consumer, or writes it to every
// target in declaration order, or to the default destination.
func (o *Orchestrator) output(ctx context.Context, bundle ports.Bundle) error {
	switch {
	case o.options.SelfBuild && o.consumer != nil:
		done := make(chan struct{})
		var once sync.Once
		o.consumer.Consume(bundle, func() {
			once.Do(func() { close(done) })
		})
		select {
		case <-done:
		case <-o.shutdownSignal():
		}
		return nil

	case len(o.options.Targets) > 0:
		for _, target := range o.options.Targets {
			if err := bundle.Write(ctx, o.options.Merge(target)); err != nil {
				return err
			}
		}
		return nil

	default:
		return bundle.Write(ctx, o.options)
	}
}

func (o *Orchestrator) shutdownSignal() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runCtx.Done()
}

func (o *Orchestrator) shutdown(cause error) error {
	o.debouncer.Stop()

	o.mu.Lock()
	o.closing = true
	o.mu.Unlock()

	o.wg.Wait()

	if err := o.registry.Close(); err != nil {
		o.logger.Error(err)
	}
	o.stream.Close()

	return cause
}
