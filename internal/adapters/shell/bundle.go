package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Bundle = (*bundle)(nil)

type bundle struct {
	modules  []domain.Module
	cache    *Cache
	artifact string
	dir      string
}

func (b *bundle) Modules() []domain.Module {
	return b.modules
}

func (b *bundle) Cache() domain.Cache {
	return b.cache
}

// Artifact returns the absolute or working-dir relative path of the build output.
func (b *bundle) Artifact() string {
	return b.artifact
}

// Write copies the artifact to opts.Dest. References to ${VAR} in Dest are
// expanded from opts.Environment so that targets can share one pattern.
func (b *bundle) Write(ctx context.Context, opts domain.Options) error {
	if opts.Dest == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := os.Expand(opts.Dest, func(key string) string {
		if v, ok := opts.Environment[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
	dest = resolvePath(b.dir, dest)

	if err := copyAtomic(b.artifact, dest); err != nil {
		return errors.Join(domain.ErrWriteFailed, zerr.With(err, "dest", dest))
	}
	return nil
}

// copyAtomic copies src to dest through a temporary file in dest's directory,
// so readers never observe a partially written artifact.
func copyAtomic(src, dest string) (err error) {
	in, err := os.Open(src) //nolint:gosec // path comes from the project configuration
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".rewatch-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
