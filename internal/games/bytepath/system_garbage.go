package bytepath

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var garbageQuery = donburi.NewQuery(filter.Contains(Garbage))

// GarbageSystem queues every dead entity for removal. The body, the spawn
// slot of a pickup and the player's presence are released when the
// command buffer applies the removal.
type GarbageSystem struct{}

func (GarbageSystem) Run(ctx *Context) {
	res := ctx.Res
	release := func(entry *donburi.Entry) {
		if entry.HasComponent(RigidBody) {
			if err := res.Physics.Remove(RigidBody.Get(entry).Handle); err != nil {
				res.Log.Warn("reaped entity had no body", "entity", entry.Entity(), "error", err)
			}
		}
		if entry.HasComponent(Pickup) && res.Spawn.AmmoCount > 0 {
			res.Spawn.AmmoCount--
		}
		if entry.HasComponent(Controllable) {
			res.Round.PlayerDown = true
		}
	}

	garbageQuery.Each(ctx.World, func(entry *donburi.Entry) {
		if !Garbage.Get(entry).IsAlive {
			ctx.Commands.Destroy(entry.Entity(), release)
		}
	})
}

// RoundSystem ends the round when the clock runs out or the player is gone.
type RoundSystem struct{}

func (RoundSystem) Run(ctx *Context) {
	res := ctx.Res
	r := &res.Round
	if d := res.Settings.Round.Duration.D(); d > 0 {
		r.Remaining = max(d-res.Time.Elapsed, 0)
		if r.Remaining == 0 {
			r.Over = true
		}
	}
	if r.PlayerDown {
		r.Over = true
	}
}
