package bytepath

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var (
	lifetimeQuery = donburi.NewQuery(filter.Contains(Lifetime, Garbage))
	tweenQuery    = donburi.NewQuery(filter.Contains(Tween))
)

// LifetimeSystem counts lifetimes down. A countdown that cannot cover the
// frame marks the entity dead and is left as it was.
type LifetimeSystem struct{}

func (LifetimeSystem) Run(ctx *Context) {
	dt := ctx.Res.Time.Delta
	lifetimeQuery.Each(ctx.World, func(entry *donburi.Entry) {
		l := Lifetime.Get(entry)
		if l.Remaining < dt {
			Garbage.Get(entry).IsAlive = false
			return
		}
		l.Remaining -= dt
	})
}

// TweenSystem advances running tweens and applies their value.
type TweenSystem struct{}

func (TweenSystem) Run(ctx *Context) {
	dt := ctx.Res.Time.Delta
	tweenQuery.Each(ctx.World, func(entry *donburi.Entry) {
		t := Tween.Get(entry)
		if !t.Advance(dt) {
			return
		}
		switch t.Kind {
		case SizeTween:
			if entry.HasComponent(Mesh) {
				Mesh.Get(entry).Scale = t.Value
			}
		}
	})
}
