package bytepath

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/bytepath/internal/core"
)

var controllableQuery = donburi.NewQuery(filter.Contains(Controllable, RigidBody))

// classic-mode burst size, upper bound exclusive
const (
	burstMin = 8
	burstMax = 12
)

// ControllableSystem steers input-driven bodies. Left and right turn the
// heading by the configured rate; up and down scale the cruising speed.
type ControllableSystem struct{}

func (ControllableSystem) Run(ctx *Context) {
	res := ctx.Res
	in := res.Input
	p := res.Settings.Player

	speed := p.Speed
	switch {
	case in.Up:
		speed *= p.Boost
	case in.Down:
		speed *= p.Slow
	}

	controllableQuery.Each(ctx.World, func(entry *donburi.Entry) {
		h := RigidBody.Get(entry).Handle
		x, y, angle, err := res.Physics.Transform(h)
		if err != nil {
			res.Log.Warn("controllable entity without body", "entity", entry.Entity(), "error", err)
			return
		}

		switch {
		case in.Left:
			angle -= p.TurnRate
		case in.Right:
			angle += p.TurnRate
		}
		angle = core.WrapAngle(angle)

		v := core.Heading(angle).Scale(speed)
		if err := res.Physics.SetTransform(h, x, y, angle); err != nil {
			res.Log.Warn("steering failed", "entity", entry.Entity(), "error", err)
			return
		}
		if err := res.Physics.SetVelocity(h, v.X, v.Y); err != nil {
			res.Log.Warn("steering failed", "entity", entry.Entity(), "error", err)
			return
		}

		if res.Mode == ModeClassic && in.Attack {
			queueExplosion(ctx, x, y, burstMin, burstMax)
		}
	})
}
