package bytepath

import (
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/bytepath/internal/ecs"
	"github.com/vovakirdan/bytepath/internal/physics"
)

// CollisionSystem reacts to the collision events published by the physics
// step. Pickups touched by the player are collected; pickups hit by a
// projectile are destroyed along with the projectile and burst into
// fragments.
type CollisionSystem struct {
	reader ecs.ReaderID
	ready  bool
}

// Setup registers the system's reader before the first event is written.
func (s *CollisionSystem) Setup(res *Resources) {
	s.reader = res.Collisions.Register()
	s.ready = true
	res.CollisionReader = s.reader
}

// Teardown releases the reader so events it never read are freed.
func (s *CollisionSystem) Teardown(res *Resources) {
	if !s.ready {
		return
	}
	res.Collisions.Unregister(s.reader)
	s.ready = false
}

func (s *CollisionSystem) Run(ctx *Context) {
	if !s.ready {
		return
	}
	res := ctx.Res
	for _, ev := range res.Collisions.Read(s.reader) {
		switch t := ev.Type.(type) {
		case physics.PlayerAmmo:
			ammo, ok := liveGarbage(ctx.World, t.Ammo)
			if !ok {
				continue
			}
			ammo.IsAlive = false
			res.Score.Collected++
			res.Score.Points += pickupPoints(ctx.World, t.Ammo, res.Settings.Scoring.Pickup)
		case physics.ProjectileAmmo:
			ammo, ok := liveGarbage(ctx.World, t.Ammo)
			if !ok {
				continue
			}
			shot, ok := liveGarbage(ctx.World, t.Projectile)
			if !ok {
				continue
			}
			ammo.IsAlive = false
			shot.IsAlive = false
			res.Score.Destroyed++
			res.Score.Points += res.Settings.Scoring.Destroy
			ex := res.Settings.Explosion
			queueExplosion(ctx, ev.X, ev.Y, ex.MinFragments, ex.MaxFragments)
		}
	}
}

// liveGarbage returns e's garbage flag if e exists and is still alive.
func liveGarbage(w donburi.World, e donburi.Entity) (*GarbageData, bool) {
	if !w.Valid(e) {
		return nil, false
	}
	entry := w.Entry(e)
	if !entry.HasComponent(Garbage) {
		return nil, false
	}
	g := Garbage.Get(entry)
	return g, g.IsAlive
}

// pickupPoints doubles the reward for boost pickups.
func pickupPoints(w donburi.World, e donburi.Entity, base int) int {
	entry := w.Entry(e)
	if entry.HasComponent(Pickup) && Pickup.Get(entry).Kind == PowerUpBoost {
		return base * 2
	}
	return base
}
