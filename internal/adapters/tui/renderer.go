package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer runs the watch screen as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	errCh   chan error
}

// NewRenderer creates a renderer for model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		errCh:   make(chan error, 1),
	}
}

// Start runs the program in the background.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop asks the program to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program exits, either after Stop or because the user quit.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnEvent forwards event to the model.
func (r *Renderer) OnEvent(event domain.Event) {
	r.program.Send(eventMsg{event: event})
}

// Write forwards command output to the model.
func (r *Renderer) Write(p []byte) (int, error) {
	data := make([]byte, len(p))
	copy(data, p)
	r.program.Send(outputMsg{data: data})
	return len(p), nil
}
