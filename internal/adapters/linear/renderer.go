// Package linear provides a line-oriented renderer for CI and piped output.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/ui/output"
	"go.trai.ch/rewatch/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer by printing one line per lifecycle event.
// Build command output goes to stdout, lifecycle lines go to stderr.
type Renderer struct {
	stdout io.Writer
	out    *termenv.Output

	mu      sync.Mutex
	pending bytes.Buffer

	stopOnce sync.Once
	done     chan struct{}
}

// NewRenderer creates a Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Renderer{
		stdout: stdout,
		out:    output.NewWithProfile(stderr, output.ColorProfileANSI),
		done:   make(chan struct{}),
	}
}

// Start is a no-op.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes a trailing partial line of command output and releases Wait.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	r.flushLocked()
	r.mu.Unlock()

	r.stopOnce.Do(func() { close(r.done) })
	return nil
}

// Wait blocks until Stop is called.
func (r *Renderer) Wait() error {
	<-r.done
	return nil
}

// OnEvent prints a status line for event.
func (r *Renderer) OnEvent(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Code {
	case domain.EventStarting:
		r.statusLocked(style.Dot, style.Accent, "starting")
	case domain.EventBuildStart:
		r.flushLocked()
		r.statusLocked(style.Spinner, style.Muted, "building...")
	case domain.EventBuildEnd:
		r.flushLocked()
		label := "built"
		if event.Initial {
			label = "initial build"
		}
		r.statusLocked(style.Check, style.Green, fmt.Sprintf("%s in %s", label, FormatDuration(event.Duration)))
	case domain.EventError:
		r.flushLocked()
		r.statusLocked(style.Cross, style.Red, "build failed: "+errorText(event.Err))
	}
}

// Write buffers command output and prints every complete line with a gutter.
func (r *Renderer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending.Write(p)
	for {
		idx := bytes.IndexByte(r.pending.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := r.pending.Next(idx + 1)
		r.printLineLocked(line)
	}
	return len(p), nil
}

func (r *Renderer) flushLocked() {
	if r.pending.Len() == 0 {
		return
	}
	r.printLineLocked(r.pending.Bytes())
	r.pending.Reset()
}

func (r *Renderer) printLineLocked(line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	gutter := r.out.String("│").Foreground(r.out.Color(string(style.Muted))).String()
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", gutter, line)
}

func (r *Renderer) statusLocked(glyph string, color lipgloss.Color, msg string) {
	prefix := r.out.String(glyph).Foreground(r.out.Color(string(color))).String()
	_, _ = r.out.WriteString(prefix + " " + msg + "\n")
}

// FormatDuration renders d the way status lines show build times.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", "\n  ")
}
