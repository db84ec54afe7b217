package tui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/midterm"
)

// Pane renders build command output through a virtual terminal so that
// carriage returns and cursor movement from the command are honoured.
type Pane struct {
	mu     sync.Mutex
	vt     *midterm.Terminal
	buf    bytes.Buffer
	offset int
	height int
	width  int
}

// NewPane creates an empty pane.
func NewPane() *Pane {
	return &Pane{vt: midterm.NewAutoResizingTerminal()}
}

// Write feeds command output into the terminal. A pane scrolled to the
// bottom stays there.
func (p *Pane) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	follow := p.offset >= p.maxOffset()
	n, err := p.vt.Write(b)
	if follow {
		p.offset = p.maxOffset()
	}
	return n, err
}

// Reset discards all output, keeping the pane size.
func (p *Pane) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.vt = midterm.NewAutoResizingTerminal()
	if p.width > 0 {
		p.vt.ResizeX(p.width)
	}
	p.offset = 0
}

// Resize sets the visible area.
func (p *Pane) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.width = max(width, 1)
	p.height = max(height, 1)
	p.vt.ResizeX(p.width)

	if p.offset > p.maxOffset() {
		p.offset = p.maxOffset()
	}
}

// Lines returns the number of lines written so far.
func (p *Pane) Lines() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vt.UsedHeight()
}

// Offset returns the first visible line.
func (p *Pane) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

// Scroll handles the scrolling keys.
func (p *Pane) Scroll(msg tea.KeyMsg) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch msg.String() {
	case "up", "k":
		p.offset--
	case "down", "j":
		p.offset++
	case "pgup":
		p.offset -= p.height
	case "pgdown":
		p.offset += p.height
	case "home", "g":
		p.offset = 0
	case "end", "G":
		p.offset = p.maxOffset()
	}
	p.offset = min(max(p.offset, 0), p.maxOffset())
}

// View renders the visible lines.
func (p *Pane) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Reset()
	used := p.vt.UsedHeight()
	for i := 0; i < p.height && p.offset+i < used; i++ {
		if i > 0 {
			p.buf.WriteByte('\n')
		}
		_ = p.vt.RenderLine(&p.buf, p.offset+i)
	}
	return p.buf.String()
}

func (p *Pane) maxOffset() int {
	return max(p.vt.UsedHeight()-p.height, 0)
}
