// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/rewatch/internal/core/domain"
)

//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks

// Bundler turns a build configuration into a bundle.
type Bundler interface {
	// Bundle runs one build. Every invocation is independent of the others;
	// cfg.Cache, when set, is the artifact of the last successful bundle.
	Bundle(ctx context.Context, cfg domain.BuildConfig) (Bundle, error)
}

// Bundle is the result of a successful build.
type Bundle interface {
	// Modules returns the modules the bundle depends on, in bundle order.
	Modules() []domain.Module
	// Cache returns the artifact to hand to the next build.
	Cache() domain.Cache
	// Write emits the bundle according to opts.
	Write(ctx context.Context, opts domain.Options) error
}

// SelfBuildConsumer receives bundles when the self-build mode is enabled.
type SelfBuildConsumer interface {
	// Consume is handed every successful bundle. The build cycle does not
	// complete until done is called.
	Consume(bundle Bundle, done func())
}
