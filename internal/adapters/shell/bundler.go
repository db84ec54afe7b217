// Package shell implements the bundler by running a build command over a set of input files.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Bundler = (*Bundler)(nil)

// Bundler implements ports.Bundler. Each Bundle call resolves the inputs,
// runs the command unless the previous cache proves it unnecessary, and
// checks that the output artifact exists.
type Bundler struct {
	logger ports.Logger

	mu     sync.RWMutex
	output io.Writer
}

// NewBundler creates a Bundler that logs command output through logger.
func NewBundler(logger ports.Logger) *Bundler {
	return &Bundler{logger: logger}
}

// SetOutput sends command output to w instead of the logger.
func (b *Bundler) SetOutput(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.output = w
}

// Bundle runs one build.
func (b *Bundler) Bundle(ctx context.Context, cfg domain.BuildConfig) (ports.Bundle, error) {
	opts := cfg.Options
	if len(opts.Cmd) == 0 {
		return nil, domain.ErrMissingCommand
	}
	dir := opts.WorkingDir
	if dir == "" {
		dir = "."
	}

	files, err := resolveInputs(dir, opts.Input)
	if err != nil {
		return nil, err
	}
	modules, err := readModules(files, opts.Cmd)
	if err != nil {
		return nil, err
	}

	cache := newCache(modules, opts)
	artifact := resolvePath(dir, opts.Output)

	prev, _ := cfg.Cache.(*Cache)
	if cache.Matches(prev) && exists(artifact) {
		b.logger.Info("inputs unchanged, reusing " + opts.Output)
		return &bundle{modules: modules, cache: cache, artifact: artifact, dir: dir}, nil
	}
	if prev != nil {
		if changed := cache.Changed(prev); len(changed) > 0 {
			b.logger.Info("rebuilding: " + strings.Join(relative(dir, changed), ", "))
		}
	}

	if err := b.run(ctx, opts, dir); err != nil {
		return nil, err
	}

	if !exists(artifact) {
		return nil, errors.Join(domain.ErrOutputMissing, zerr.With(os.ErrNotExist, "output", opts.Output))
	}

	return &bundle{modules: modules, cache: cache, artifact: artifact, dir: dir}, nil
}

func (b *Bundler) run(ctx context.Context, opts domain.Options, dir string) error {
	b.mu.RLock()
	w := b.output
	b.mu.RUnlock()

	if w == nil {
		lw := &logWriter{logger: b.logger}
		defer func() { _ = lw.Close() }()
		w = lw
	}

	if err := runCommand(ctx, opts.Cmd, dir, opts.Environment, w); err != nil {
		return zerr.With(err, "cmd", strings.Join(opts.Cmd, " "))
	}
	return nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func relative(dir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if rel, err := filepath.Rel(dir, p); err == nil {
			out[i] = rel
		} else {
			out[i] = p
		}
	}
	return out
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
