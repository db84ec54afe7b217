package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rewatch/internal/core/domain"
)

// EventMsg wraps event the way the renderer sends it.
func EventMsg(event domain.Event) tea.Msg {
	return eventMsg{event: event}
}

// OutputMsg wraps command output the way the renderer sends it.
func OutputMsg(data string) tea.Msg {
	return outputMsg{data: []byte(data)}
}
