// Package tui provides a terminal dashboard for the watch loop.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Source yields reload messages until it is closed.
type Source interface {
	Read() (tea.Msg, bool)
}

// WaitForFeed returns a Bubble Tea command that reads the next message from the source.
// It returns MsgFeedEnded once the source is exhausted.
func WaitForFeed(src Source) tea.Cmd {
	return func() tea.Msg {
		msg, ok := src.Read()
		if !ok {
			return MsgFeedEnded{}
		}
		return msg
	}
}
