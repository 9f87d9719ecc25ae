package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bytepath/internal/core"
)

// GameKeyMap defines the in-game key bindings.
type GameKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Attack     key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Attack, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Attack},
		{k.Pause, k.Restart, k.Back, k.Screenshot, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("up/w", "boost"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("down/s", "slow"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("left/a", "steer left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("right/d", "steer right"),
		),
		Attack: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "fire"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	Keys GameKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{Keys: DefaultGameKeyMap()}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.Keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.Up):
		return core.ActionUp, false
	case key.Matches(msg, k.Down):
		return core.ActionDown, false
	case key.Matches(msg, k.Left):
		return core.ActionLeft, false
	case key.Matches(msg, k.Right):
		return core.ActionRight, false
	case key.Matches(msg, k.Attack):
		return core.ActionAttack, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// heldInput turns discrete terminal key presses into held controls.
// Terminals report no key releases, so a steering press stays active
// for holdTicks frames and is refreshed by the terminal's key repeat.
// One-shot actions last exactly one frame.
type heldInput struct {
	holdTicks int
	held      map[core.Action]int
	once      map[core.Action]bool
}

func newHeldInput(holdTicks int) *heldInput {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &heldInput{
		holdTicks: holdTicks,
		held:      make(map[core.Action]int),
		once:      make(map[core.Action]bool),
	}
}

// Press registers a key press for action.
func (h *heldInput) Press(a core.Action) {
	if a == core.ActionNone {
		return
	}
	if a.Steering() {
		h.held[a] = h.holdTicks
		// Opposite steering cancels immediately
		switch a {
		case core.ActionLeft:
			delete(h.held, core.ActionRight)
		case core.ActionRight:
			delete(h.held, core.ActionLeft)
		case core.ActionUp:
			delete(h.held, core.ActionDown)
		case core.ActionDown:
			delete(h.held, core.ActionUp)
		}
		return
	}
	h.once[a] = true
}

// Frame returns the input for the next tick and ages held actions.
func (h *heldInput) Frame() core.InputFrame {
	frame := core.NewInputFrame()
	for a, left := range h.held {
		frame.Set(a)
		if left <= 1 {
			delete(h.held, a)
		} else {
			h.held[a] = left - 1
		}
	}
	for a := range h.once {
		frame.Set(a)
		delete(h.once, a)
	}
	return frame
}

// Reset drops every pending action.
func (h *heldInput) Reset() {
	clear(h.held)
	clear(h.once)
}
