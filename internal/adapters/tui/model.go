// Package tui provides the interactive terminal renderer.
package tui

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/ui/output"
)

// Status is the state shown in the header.
type Status int

const (
	// StatusStarting is shown until the first build begins.
	StatusStarting Status = iota
	// StatusBuilding is shown while a build runs.
	StatusBuilding
	// StatusReady is shown after a successful build.
	StatusReady
	// StatusFailed is shown after a failed build.
	StatusFailed
)

// chromeHeight is the number of lines used by the header and the footer.
const chromeHeight = 3

type (
	eventMsg  struct{ event domain.Event }
	outputMsg struct{ data []byte }
)

// Model is the bubbletea model of the watch screen.
type Model struct {
	Status   Status
	Builds   int
	Failures int
	Last     time.Duration
	Err      error
	Output   *Pane
	Width    int
	Height   int

	spinner spinner.Model
}

// NewModel creates a model whose colors match w.
func NewModel(w io.Writer) *Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = buildingStyle

	return &Model{Output: NewPane(), spinner: s}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			m.Output.Scroll(msg)
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Output.Resize(msg.Width, msg.Height-chromeHeight)

	case eventMsg:
		m.apply(msg.event)

	case outputMsg:
		_, _ = m.Output.Write(msg.data)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) apply(event domain.Event) {
	switch event.Code {
	case domain.EventStarting:
		m.Status = StatusStarting
	case domain.EventBuildStart:
		m.Status = StatusBuilding
		m.Output.Reset()
	case domain.EventBuildEnd:
		m.Status = StatusReady
		m.Builds++
		m.Last = event.Duration
		m.Err = nil
	case domain.EventError:
		m.Status = StatusFailed
		m.Failures++
		m.Err = event.Err
	}
}
