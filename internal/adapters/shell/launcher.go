package shell

import (
	"context"
	"io"
	"sync"

	"go.trai.ch/rewatch/internal/core/ports"
)

var _ ports.SelfBuildConsumer = (*Launcher)(nil)

// artifacter is implemented by bundles that produce an executable file.
type artifacter interface {
	Artifact() string
}

// Launcher runs every freshly built artifact and reports the build cycle as
// complete once the process exits. It serves the self-build mode, where the
// built program is the thing being developed.
type Launcher struct {
	logger ports.Logger
	args   []string

	mu     sync.Mutex
	output io.Writer
	ctx    context.Context //nolint:containedctx // cancels the running artifact on Close
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLauncher creates a Launcher that passes args to every artifact it runs.
func NewLauncher(logger ports.Logger, args ...string) *Launcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Launcher{logger: logger, args: args, ctx: ctx, cancel: cancel}
}

// SetOutput sends the artifact's output to w instead of the logger.
func (l *Launcher) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Consume starts the bundle's artifact and calls done when it exits.
// Bundles without an artifact complete immediately.
func (l *Launcher) Consume(bundle ports.Bundle, done func()) {
	a, ok := bundle.(artifacter)
	if !ok || a.Artifact() == "" {
		done()
		return
	}

	l.mu.Lock()
	w := l.output
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer done()

		if w == nil {
			lw := &logWriter{logger: l.logger}
			defer func() { _ = lw.Close() }()
			w = lw
		}

		argv := append([]string{a.Artifact()}, l.args...)
		if err := runCommand(l.ctx, argv, "", nil, w); err != nil {
			l.logger.Error(err)
		}
	}()
}

// Close kills a running artifact and waits for it to exit.
func (l *Launcher) Close() error {
	l.cancel()
	l.wg.Wait()
	return nil
}
