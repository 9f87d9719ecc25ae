package bytepath

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var bodyQuery = donburi.NewQuery(filter.Contains(RigidBody, Position))

// PhysicsSystem steps the physics world and publishes the contacts that
// started during the step.
type PhysicsSystem struct{}

func (PhysicsSystem) Run(ctx *Context) {
	events := ctx.Res.Physics.Step(ctx.Res.Time.Delta)
	if len(events) > 0 {
		ctx.Res.Collisions.Write(events...)
	}
}

// PositionSystem copies body transforms into Position.
type PositionSystem struct{}

func (PositionSystem) Run(ctx *Context) {
	res := ctx.Res
	bodyQuery.Each(ctx.World, func(entry *donburi.Entry) {
		x, y, angle, err := res.Physics.Transform(RigidBody.Get(entry).Handle)
		if err != nil {
			res.Log.Warn("position sync skipped", "entity", entry.Entity(), "error", err)
			return
		}
		Position.SetValue(entry, PositionData{X: x, Y: y, Angle: angle})
	})
}
