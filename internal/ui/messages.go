// Package ui provides the terminal user interface for habitstreak.
// This file defines the messages exchanged inside the Bubble Tea loop. Store
// calls are synchronous and happen in Update, so the only messages are the
// clock tick and status reports from panes.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is sent periodically for status expiry and day rollover.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// statusMsg asks the app to show a line in the status bar.
type statusMsg struct {
	text string
	err  bool
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, err: isErr}
	}
}
