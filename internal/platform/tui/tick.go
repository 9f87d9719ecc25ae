// Package tui provides the Bubble Tea front end for the arena.
// It handles the terminal UI loop, held-key input, and score keeping.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bytepath/internal/core"
)

// TickMsg asks the model to advance the simulation by one frame.
type TickMsg time.Time

// tickCmd schedules the next frame one frame delta from now. The delta
// comes from the same config the game steps with, so both agree on the
// frame length.
func tickCmd(cfg core.RuntimeConfig) tea.Cmd {
	return tea.Tick(cfg.FrameDelta(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
