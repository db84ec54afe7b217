package tui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/adapters/tui"
)

func TestPane_FollowsBottom(t *testing.T) {
	t.Parallel()

	p := tui.NewPane()
	p.Resize(40, 3)

	_, err := p.Write([]byte("1\n2\n3\n4\n5\n"))
	require.NoError(t, err)

	assert.Equal(t, p.Lines()-3, p.Offset())
	assert.Contains(t, p.View(), "5")
}

func TestPane_ScrolledUpStaysPut(t *testing.T) {
	t.Parallel()

	p := tui.NewPane()
	p.Resize(40, 2)
	_, _ = p.Write([]byte("a\nb\nc\nd\n"))

	p.Scroll(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, p.Offset())

	_, _ = p.Write([]byte("e\nf\n"))
	assert.Equal(t, 0, p.Offset())
}

func TestPane_ScrollClamps(t *testing.T) {
	t.Parallel()

	p := tui.NewPane()
	p.Resize(40, 2)
	_, _ = p.Write([]byte("a\nb\nc\nd\n"))

	p.Scroll(tea.KeyMsg{Type: tea.KeyPgUp})
	p.Scroll(tea.KeyMsg{Type: tea.KeyPgUp})
	p.Scroll(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, p.Offset())

	p.Scroll(tea.KeyMsg{Type: tea.KeyEnd})
	end := p.Offset()
	p.Scroll(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, end, p.Offset())

	p.Scroll(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, end-1, p.Offset())
}

func TestPane_Reset(t *testing.T) {
	t.Parallel()

	p := tui.NewPane()
	p.Resize(40, 5)
	_, _ = p.Write([]byte("old output\n"))

	p.Reset()
	assert.NotContains(t, p.View(), "old output")
	assert.Equal(t, 0, p.Offset())
}
