package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rewatch/internal/adapters/linear"
	"go.trai.ch/rewatch/internal/ui/style"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header(),
		m.body(),
		m.footer(),
	)
}

func (m *Model) header() string {
	title := titleStyle.Render("REWATCH")
	if m.Status == StatusFailed {
		title = failureTitleStyle.Render("REWATCH")
	}
	return title + " " + m.statusLine()
}

func (m *Model) statusLine() string {
	switch m.Status {
	case StatusBuilding:
		return m.spinner.View() + buildingStyle.Render(" building...")
	case StatusReady:
		return successStyle.Render(fmt.Sprintf("%s built in %s", style.Check, linear.FormatDuration(m.Last))) +
			waitingStyle.Render("  waiting for changes")
	case StatusFailed:
		msg := style.Cross + " build failed"
		if m.Err != nil {
			msg += ": " + firstLine(m.Err.Error())
		}
		return errorStyle.Render(msg)
	default:
		return waitingStyle.Render(style.Circle + " starting")
	}
}

func (m *Model) body() string {
	height := max(m.Height-chromeHeight, 1)
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(m.Output.View())
}

func (m *Model) footer() string {
	parts := []string{
		fmt.Sprintf("%d builds", m.Builds),
		fmt.Sprintf("%d failed", m.Failures),
		"↑/↓ scroll",
		"q quit",
	}
	return hintStyle.Render(strings.Join(parts, " • "))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
