package ports

import (
	"context"

	"go.trai.ch/rewatch/internal/core/domain"
)

// Renderer is the abstraction for output rendering.
// It decouples the lifecycle event stream from presentation,
// allowing the same events to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for shutdown.
	Stop() error

	// Wait blocks until the renderer has fully terminated, either after Stop
	// or because the user asked to quit.
	Wait() error

	// OnEvent is called for every lifecycle event, in publication order.
	OnEvent(event domain.Event)

	// Write receives the raw output of the build command.
	Write(p []byte) (int, error)
}
