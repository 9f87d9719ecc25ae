package bytepath

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/bytepath/internal/config"
	"github.com/vovakirdan/bytepath/internal/core"
)

var boundsQuery = donburi.NewQuery(filter.Contains(Bounds, Position))

// BoundsSystem enforces each entity's bounds policy. Clamped entities are
// held on the edge; killed entities are marked dead and, when tagged,
// leave one explosion behind.
type BoundsSystem struct{}

func (BoundsSystem) Run(ctx *Context) {
	res := ctx.Res
	boundsQuery.Each(ctx.World, func(entry *donburi.Entry) {
		b := Bounds.Get(entry)
		pos := Position.Get(entry)
		if b.Contains(pos.X, pos.Y) {
			return
		}

		switch b.Policy {
		case config.BoundsClamp:
			pos.X = core.ClampF(pos.X, b.XMin, b.XMax)
			pos.Y = core.ClampF(pos.Y, b.YMin, b.YMax)
			if entry.HasComponent(RigidBody) {
				if err := res.Physics.SetTransform(RigidBody.Get(entry).Handle, pos.X, pos.Y, pos.Angle); err != nil {
					res.Log.Warn("bounds clamp skipped", "entity", entry.Entity(), "error", err)
				}
			}
		default:
			if !entry.HasComponent(Garbage) {
				return
			}
			g := Garbage.Get(entry)
			if !g.IsAlive {
				return
			}
			g.IsAlive = false
			if entry.HasComponent(ExplodeOnBoundsExit) {
				ctx.Commands.Spawn(SpawnBoundsExplosion(res, pos.X, pos.Y))
			}
		}
	})
}
