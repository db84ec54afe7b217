package linear_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/adapters/linear"
	"go.trai.ch/rewatch/internal/core/domain"
)

func newTestRenderer(t *testing.T) (r *linear.Renderer, stdout, stderr *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	return linear.NewRenderer(stdout, stderr), stdout, stderr
}

func TestRenderer_Lifecycle(t *testing.T) {
	r, _, stderr := newTestRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	r.OnEvent(domain.NewEvent(domain.EventStarting))
	r.OnEvent(domain.NewEvent(domain.EventBuildStart))
	r.OnEvent(domain.BuildEndEvent(12*time.Millisecond, true))
	r.OnEvent(domain.NewEvent(domain.EventBuildStart))
	r.OnEvent(domain.ErrorEvent(errors.New("exit status 1")))
	r.OnEvent(domain.NewEvent(domain.EventBuildStart))
	r.OnEvent(domain.BuildEndEvent(1500*time.Millisecond, false))

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	g := goldie.New(t)
	g.Assert(t, "lifecycle", stderr.Bytes())
}

func TestRenderer_MultilineError(t *testing.T) {
	r, _, stderr := newTestRenderer(t)

	r.OnEvent(domain.ErrorEvent(errors.New("main.go:3: undefined: x\nmain.go:4: undefined: y\n")))

	g := goldie.New(t)
	g.Assert(t, "error_multiline", stderr.Bytes())
}

func TestRenderer_CommandOutput(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	n, err := r.Write([]byte("compiling\nlinking"))
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Equal(t, "│ compiling\n", stdout.String(), "partial lines are held back")

	_, err = r.Write([]byte(" done\r\ntail"))
	require.NoError(t, err)
	require.NoError(t, r.Stop())

	g := goldie.New(t)
	g.Assert(t, "command_output", stdout.Bytes())
}

func TestRenderer_EventFlushesPartialLine(t *testing.T) {
	r, stdout, stderr := newTestRenderer(t)

	_, err := r.Write([]byte("no newline"))
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	r.OnEvent(domain.BuildEndEvent(3*time.Millisecond, false))
	assert.Equal(t, "│ no newline\n", stdout.String())
	assert.Equal(t, "✓ built in 3ms\n", stderr.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "<1ms"},
		{in: 999 * time.Microsecond, want: "<1ms"},
		{in: 12 * time.Millisecond, want: "12ms"},
		{in: 999 * time.Millisecond, want: "999ms"},
		{in: 1500 * time.Millisecond, want: "1.50s"},
		{in: 2 * time.Minute, want: "120.00s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, linear.FormatDuration(tt.in))
		})
	}
}

func TestRenderer_WaitReturnsAfterStop(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	waited := make(chan error, 1)
	go func() { waited <- r.Wait() }()

	select {
	case <-waited:
		t.Fatal("Wait returned before Stop")
	case <-time.After(10 * time.Millisecond):
	}

	require.NoError(t, r.Stop())
	require.NoError(t, r.Stop())
	require.NoError(t, <-waited)
}
