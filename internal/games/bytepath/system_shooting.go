package bytepath

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/bytepath/internal/core"
)

var shootingQuery = donburi.NewQuery(filter.Contains(Shooting, Position))

// ShootingSystem fires a projectile from every shooter whose cooldown has
// run out. Projectiles leave from the rim of the ship along its heading.
type ShootingSystem struct{}

func (ShootingSystem) Run(ctx *Context) {
	res := ctx.Res
	now := res.Time.Elapsed
	muzzle := res.Settings.Player.Radius

	shootingQuery.Each(ctx.World, func(entry *donburi.Entry) {
		sh := Shooting.Get(entry)
		since := max(now-sh.LastFiredAt, 0)
		if since < sh.Interval {
			return
		}
		sh.LastFiredAt = now

		pos := Position.Get(entry)
		at := core.V(pos.X, pos.Y).Add(core.Heading(pos.Angle).Scale(muzzle))
		ctx.Commands.Spawn(SpawnProjectile(res, at.X, at.Y, pos.Angle))
	})
}
