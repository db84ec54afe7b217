package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rewatch/internal/ui/style"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.Text)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.Text)

	waitingStyle = lipgloss.NewStyle().Foreground(style.Muted)

	buildingStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(style.Green)

	errorStyle = lipgloss.NewStyle().Foreground(style.Red)

	hintStyle = lipgloss.NewStyle().
			Foreground(style.Muted).
			Faint(true)
)
