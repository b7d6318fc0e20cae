package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Watch speed bounds.
const (
	MinTickInterval = 10 * time.Millisecond
	MaxTickInterval = 2 * time.Second
)

// TickMsg is sent on each simulation tick.
type TickMsg time.Time

// tickCmd returns a command that sends a TickMsg after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// clampInterval keeps a tick interval within the watch speed bounds.
func clampInterval(d time.Duration) time.Duration {
	return min(max(d, MinTickInterval), MaxTickInterval)
}
