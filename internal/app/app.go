// Package app implements the application layer for rewatch.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rewatch/internal/adapters/detector"
	"go.trai.ch/rewatch/internal/adapters/linear"
	"go.trai.ch/rewatch/internal/adapters/telemetry"
	"go.trai.ch/rewatch/internal/adapters/tui"
	"go.trai.ch/rewatch/internal/build"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/engine/advisory"
	"go.trai.ch/rewatch/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// outputSetter is implemented by adapters whose output can be redirected.
type outputSetter interface {
	SetOutput(w io.Writer)
}

// jsonSetter is implemented by loggers with a JSON mode.
type jsonSetter interface {
	SetJSON(enable bool)
}

// App wires the orchestrator to its adapters and a renderer.
type App struct {
	loader   ports.ConfigLoader
	bundler  ports.Bundler
	notifier ports.Notifier
	launcher ports.SelfBuildConsumer
	versions ports.VersionSource
	logger   ports.Logger

	stdout     io.Writer
	stderr     io.Writer
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	bundler ports.Bundler,
	notifier ports.Notifier,
	launcher ports.SelfBuildConsumer,
	versions ports.VersionSource,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		bundler:  bundler,
		notifier: notifier,
		launcher: launcher,
		versions: versions,
		logger:   log,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput replaces the process streams used by the renderers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configures Watch and Build.
type RunOptions struct {
	// ConfigPath is the configuration file or the directory to search from.
	ConfigPath string
	// OutputMode is one of auto, tui, linear or ci.
	OutputMode string
	// Debounce overrides the configured debounce window when positive.
	Debounce time.Duration
	// NoVersionCheck disables the newer-version advisory.
	NoVersionCheck bool
	// LogJSON switches the logger to JSON output.
	LogJSON bool
	// Trace logs every finished span.
	Trace bool
}

// session holds what a single Watch or Build invocation runs.
type session struct {
	config       *domain.Config
	renderer     ports.Renderer
	orchestrator *orchestrator.Orchestrator
	cleanup      []func()
}

func (s *session) close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// Watch builds once and rebuilds on every change until ctx is cancelled or
// the user quits the interactive renderer.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if err := s.renderer.Start(gctx); err != nil {
			return err
		}
		return s.renderer.Wait()
	})

	g.Go(func() error {
		a.forward(s)
		return nil
	})

	if s.config.CheckVersion && !opts.NoVersionCheck {
		g.Go(func() error {
			advisory.NewChecker(a.versions, a.logger, build.Version).Check(gctx)
			return nil
		})
	}

	g.Go(func() error {
		return s.orchestrator.Run(gctx)
	})

	return g.Wait()
}

// Build runs a single build cycle and writes its outputs.
func (a *App) Build(ctx context.Context, opts RunOptions) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}
	defer s.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.renderer.Start(gctx); err != nil {
			return err
		}
		return s.renderer.Wait()
	})

	g.Go(func() error {
		a.forward(s)
		return nil
	})

	var buildErr error
	g.Go(func() error {
		buildErr = s.orchestrator.Once(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if buildErr != nil {
		return errors.Join(domain.ErrBuildFailed, buildErr)
	}
	return nil
}

// forward hands every lifecycle event to the renderer and stops it once the
// stream is closed.
func (a *App) forward(s *session) {
	for event := range s.orchestrator.Events() {
		s.renderer.OnEvent(event)
	}
	_ = s.renderer.Stop()
}

func (a *App) prepare(opts RunOptions) (*session, error) {
	if j, ok := a.logger.(jsonSetter); ok {
		j.SetJSON(opts.LogJSON)
	}

	mode, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return nil, err
	}

	path := opts.ConfigPath
	if path == "" {
		path = "."
	}
	cfg, err := a.loader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	s := &session{config: cfg}
	s.renderer = a.newRenderer(detector.Detect().Resolve(mode))
	a.redirect(s)

	tracer := telemetry.NewOTelTracer(nil)
	if opts.Trace {
		provider := telemetry.NewProvider(telemetry.NewLogProcessor(a.logger))
		tracer = telemetry.NewOTelTracer(provider)
		s.cleanup = append(s.cleanup, func() {
			_ = provider.Shutdown(context.Background())
		})
	}

	debounce := cfg.Debounce
	if opts.Debounce > 0 {
		debounce = opts.Debounce
	}

	s.orchestrator, err = orchestrator.New(
		a.bundler,
		a.notifier,
		a.logger,
		tracer,
		cfg.Options,
		orchestrator.WithDebounce(debounce),
		orchestrator.WithSelfBuildConsumer(a.launcher),
	)
	if err != nil {
		s.close()
		return nil, err
	}

	s.cleanup = append(s.cleanup, func() {
		for _, c := range []any{a.launcher, a.notifier} {
			if closer, ok := c.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					a.logger.Error(err)
				}
			}
		}
	})

	return s, nil
}

func (a *App) newRenderer(mode detector.OutputMode) ports.Renderer {
	if mode == detector.ModeTUI {
		return tui.NewRenderer(tui.NewModel(a.stderr), a.teaOptions...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

// redirect sends command and artifact output to the renderer. In TUI mode the
// logger writes into the renderer too, so log lines do not tear the screen.
func (a *App) redirect(s *session) {
	for _, c := range []any{a.bundler, a.launcher} {
		if o, ok := c.(outputSetter); ok {
			o.SetOutput(s.renderer)
			s.cleanup = append(s.cleanup, func() { o.SetOutput(nil) })
		}
	}

	if _, ok := s.renderer.(*tui.Renderer); !ok {
		return
	}
	if o, ok := a.logger.(outputSetter); ok {
		o.SetOutput(s.renderer)
		s.cleanup = append(s.cleanup, func() { o.SetOutput(a.stderr) })
	}
}
