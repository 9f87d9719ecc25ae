package bytepath

// SpawnSystem releases a pickup each time the cadence elapses, as long as
// fewer than spawn.ammo_max are live. Difficulty shortens the cadence as
// the score grows; the cap never moves.
type SpawnSystem struct{}

func (SpawnSystem) Run(ctx *Context) {
	res := ctx.Res
	base := res.Settings.Spawn
	info := &res.Spawn

	info.AmmoEvery = base.AmmoEvery.D()
	info.AmmoMax = base.AmmoMax
	if res.Difficulty != nil {
		info.AmmoEvery = res.Difficulty.Tune(info.AmmoEvery, res.Score.Points, res.Time.Frame).Every
	}

	if res.Time.Elapsed-info.AmmoLast <= info.AmmoEvery || info.AmmoCount >= info.AmmoMax {
		return
	}

	ctx.Commands.Spawn(SpawnAmmo(res, randomAmmo(res)))
	info.AmmoLast = res.Time.Elapsed
	info.AmmoCount++
}
