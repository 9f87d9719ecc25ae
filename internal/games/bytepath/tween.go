package bytepath

import (
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// Ease names an easing curve. Curves come from gween and are evaluated
// over the unit range.
type Ease uint8

const (
	EaseCubicIn Ease = iota
	EaseLinear
	EaseQuadIn
)

var easeFuncs = [...]ease.TweenFunc{
	EaseCubicIn: ease.InCubic,
	EaseLinear:  ease.Linear,
	EaseQuadIn:  ease.InQuad,
}

func (e Ease) String() string {
	switch e {
	case EaseCubicIn:
		return "cubic-in"
	case EaseLinear:
		return "linear"
	case EaseQuadIn:
		return "quad-in"
	default:
		return fmt.Sprintf("Ease(%d)", uint8(e))
	}
}

// Func returns the gween curve for e. Unknown values fall back to cubic-in.
func (e Ease) Func() ease.TweenFunc {
	if int(e) >= len(easeFuncs) {
		return ease.InCubic
	}
	return easeFuncs[e]
}

// Apply evaluates the curve at p, clamped to [0, 1].
func (e Ease) Apply(p float64) float64 {
	p = min(max(p, 0), 1)
	return float64(e.Func()(float32(p), 0, 1, 1))
}

// TweenKind selects the visual parameter a tween drives.
type TweenKind uint8

const (
	// SizeTween drives the mesh scale.
	SizeTween TweenKind = iota
)

// TweenData interpolates from Starting to Ending over Duration.
type TweenData struct {
	Kind     TweenKind
	Ease     Ease
	Starting float64
	Ending   float64
	Value    float64
	Elapsed  time.Duration
	Duration time.Duration
}

// NewSizeTween returns a scale tween positioned at its start.
func NewSizeTween(ease Ease, starting, ending float64, d time.Duration) TweenData {
	return TweenData{
		Kind:     SizeTween,
		Ease:     ease,
		Starting: starting,
		Ending:   ending,
		Value:    starting,
		Duration: d,
	}
}

// Done reports whether the tween has reached its end.
func (t TweenData) Done() bool {
	return t.Elapsed >= t.Duration
}

// Eval returns the eased value at the current Elapsed. A descending range
// is evaluated as its ascending mirror subtracted from Starting.
func (t TweenData) Eval() float64 {
	p := 1.0
	if t.Duration > 0 {
		p = float64(t.Elapsed) / float64(t.Duration)
	}
	e := t.Ease.Apply(p)
	if t.Starting > t.Ending {
		return t.Starting - (t.Starting-t.Ending)*e
	}
	return t.Starting + (t.Ending-t.Starting)*e
}

// Advance moves a running tween forward by dt and recomputes Value.
// It does nothing once the tween is done.
func (t *TweenData) Advance(dt time.Duration) bool {
	if t.Done() {
		return false
	}
	t.Elapsed += dt
	t.Value = t.Eval()
	return true
}
