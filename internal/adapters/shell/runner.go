package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// runCommand runs argv in dir with env, streaming its combined output to w.
// A pseudo-terminal is used where supported so tools keep their colors.
func runCommand(ctx context.Context, argv []string, dir string, env map[string]string, w io.Writer) error {
	if len(argv) == 0 {
		return domain.ErrMissingCommand
	}

	cmdEnv := mergeEnvironment(os.Environ(), env)

	executable := argv[0]
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		if lp, err := lookPath(executable, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = argv[0]
	cmd.Dir = dir
	cmd.Env = cmdEnv

	ptmx, err := pty.Start(cmd)
	switch {
	case errors.Is(err, pty.ErrUnsupported):
		cmd = exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // user provided command
		cmd.Args[0] = argv[0]
		cmd.Dir = dir
		cmd.Env = cmdEnv
		cmd.Stdout = w
		cmd.Stderr = w
		return exitError(cmd.Run())
	case err != nil:
		return errors.Join(domain.ErrCommandFailed, zerr.Wrap(err, "failed to start pty"))
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master fails with EIO once the child exits.
		_, _ = io.Copy(w, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone
	_ = ptmx.Close()

	return exitError(waitErr)
}

func exitError(err error) error {
	if err == nil {
		return nil
	}
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return errors.Join(domain.ErrCommandFailed, zerr.With(err, "exit_code", exitCode))
}

// mergeEnvironment applies overrides on top of the process environment.
func mergeEnvironment(sysEnv []string, overrides map[string]string) []string {
	result := make([]string, 0, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, overridden := overrides[k]; overridden {
			continue
		}
		result = append(result, entry)
	}
	for k, v := range overrides {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches the PATH of env rather than the PATH of the process, so a
// PATH set in the configuration is honoured.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func isExecutable(file string) bool {
	info, err := os.Stat(file)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode()&0o111 != 0
}

// logWriter turns command output into one log entry per line.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a trailing partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	w.logger.Info(strings.TrimSuffix(string(line), "\r"))
}
