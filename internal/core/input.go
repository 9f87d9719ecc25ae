package core

// Action is a semantic control, decoupled from the key that produced it.
type Action uint8

const (
	ActionNone    Action = iota
	ActionUp             // boost
	ActionDown           // brake
	ActionLeft           // steer counter-clockwise
	ActionRight          // steer clockwise
	ActionAttack         // fire
	ActionBack           // leave to the menu
	ActionRestart        // new round after game over
	ActionQuit           // exit the session
	ActionPause          // toggle pause

	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionAttack:  "Attack",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

func (a Action) String() string {
	if a >= actionCount {
		return "Unknown"
	}
	return actionNames[a]
}

// Steering reports whether the action is a held control rather than a
// one-shot command. Fire counts as held so keeping the key down
// keeps shooting.
func (a Action) Steering() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight, ActionAttack:
		return true
	default:
		return false
	}
}

// InputFrame is the set of actions active during one tick.
// The zero value is an empty frame.
type InputFrame struct {
	bits uint16
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks a as active. ActionNone is ignored.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone || a >= actionCount {
		return
	}
	f.bits |= 1 << a
}

// Has reports whether a is active.
func (f InputFrame) Has(a Action) bool {
	return a < actionCount && f.bits&(1<<a) != 0
}

// Empty reports whether no action is active.
func (f InputFrame) Empty() bool {
	return f.bits == 0
}

// Clear deactivates every action.
func (f *InputFrame) Clear() {
	f.bits = 0
}
