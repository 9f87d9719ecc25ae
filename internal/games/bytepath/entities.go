package bytepath

import (
	"math"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"

	"github.com/vovakirdan/bytepath/internal/config"
	"github.com/vovakirdan/bytepath/internal/core"
	"github.com/vovakirdan/bytepath/internal/ecs"
	"github.com/vovakirdan/bytepath/internal/physics"
)

// playerBoundsInset keeps the ship's outline off the arena edge.
const playerBoundsInset = 8

// SpawnPlayer creates the ship at the arena centre.
func SpawnPlayer(res *Resources) ecs.SpawnFunc {
	s := res.Settings
	policy, err := config.ParseBoundsPolicy(s.Player.BoundsPolicy)
	if err != nil {
		res.Log.Warn("invalid player bounds policy, clamping", "error", err)
		policy = config.BoundsClamp
	}
	shooting := res.Mode == ModeStandard

	return func(w donburi.World) donburi.Entity {
		x, y := s.Arena.Width/2, s.Arena.Height/2
		r := s.Player.Radius
		inset := r + playerBoundsInset

		comps := []component.IComponentType{Position, RigidBody, Bounds, Controllable, Garbage, Mesh}
		if shooting {
			comps = append(comps, Shooting)
		}
		e := w.Create(comps...)
		entry := w.Entry(e)

		Position.SetValue(entry, PositionData{X: x, Y: y})
		h := res.Physics.Insert(e, physics.BodyDesc{X: x, Y: y, Radius: r, Kind: physics.KindPlayer})
		RigidBody.SetValue(entry, RigidBodyData{Handle: h})
		Bounds.SetValue(entry, BoundsData{
			XMin: inset, XMax: s.Arena.Width - inset,
			YMin: inset, YMax: s.Arena.Height - inset,
			Policy: policy,
		})
		Garbage.SetValue(entry, GarbageData{IsAlive: true})
		Mesh.SetValue(entry, MeshData{
			Shapes: []Shape{
				Circle{Radius: r},
				Line{From: core.V(0, 0), To: core.V(r*1.6, 0)},
			},
			Color: core.ColorPlayer,
			Scale: 1,
		})
		if shooting {
			Shooting.SetValue(entry, ShootingData{Interval: s.Player.ShootInterval.D(), LastFiredAt: res.Time.Elapsed})
		}
		return e
	}
}

// SpawnProjectile fires a projectile from (x, y) along angle.
func SpawnProjectile(res *Resources, x, y, angle float64) ecs.SpawnFunc {
	s := res.Settings
	return func(w donburi.World) donburi.Entity {
		v := core.Heading(angle).Scale(s.Projectile.Speed)

		e := w.Create(Position, RigidBody, Bounds, ExplodeOnBoundsExit, Lifetime, Garbage, Mesh)
		entry := w.Entry(e)

		Position.SetValue(entry, PositionData{X: x, Y: y, Angle: angle})
		h := res.Physics.Insert(e, physics.BodyDesc{
			X: x, Y: y, Angle: angle,
			VX: v.X, VY: v.Y,
			Radius: s.Projectile.Radius,
			Kind:   physics.KindPlayerProjectile,
		})
		RigidBody.SetValue(entry, RigidBodyData{Handle: h})
		Bounds.SetValue(entry, BoundsData{
			XMax: s.Arena.Width, YMax: s.Arena.Height,
			Policy: config.BoundsKill,
		})
		Lifetime.SetValue(entry, LifetimeData{Remaining: s.Projectile.Lifetime.D()})
		Garbage.SetValue(entry, GarbageData{IsAlive: true})
		Mesh.SetValue(entry, MeshData{
			Shapes: []Shape{Line{From: core.V(-s.Projectile.Radius*2, 0), To: core.V(s.Projectile.Radius*2, 0)}},
			Color:  core.ColorProjectile,
			Scale:  1,
		})
		return e
	}
}

// AmmoSpec fixes the random choices for one pickup.
type AmmoSpec struct {
	X, Y   float64
	VX, VY float64
	Spin   float64
	Kind   PowerUp
}

// SpawnAmmo creates a drifting pickup.
func SpawnAmmo(res *Resources, spec AmmoSpec) ecs.SpawnFunc {
	s := res.Settings
	return func(w donburi.World) donburi.Entity {
		r := s.Ammo.Radius
		m := s.Ammo.Margin

		e := w.Create(Position, RigidBody, Bounds, Lifetime, Pickup, Garbage, Mesh)
		entry := w.Entry(e)

		Position.SetValue(entry, PositionData{X: spec.X, Y: spec.Y})
		h := res.Physics.Insert(e, physics.BodyDesc{
			X: spec.X, Y: spec.Y,
			VX: spec.VX, VY: spec.VY,
			AngularVelocity: spec.Spin,
			Radius:          r,
			Kind:            physics.KindAmmo,
			Sensor:          true,
		})
		RigidBody.SetValue(entry, RigidBodyData{Handle: h})
		Bounds.SetValue(entry, BoundsData{
			XMin: -m, XMax: s.Arena.Width + m,
			YMin: -m, YMax: s.Arena.Height + m,
			Policy: config.BoundsKill,
		})
		Lifetime.SetValue(entry, LifetimeData{Remaining: s.Ammo.Lifetime.D()})
		Pickup.SetValue(entry, PickupData{Kind: spec.Kind})
		Garbage.SetValue(entry, GarbageData{IsAlive: true})

		color := core.ColorAmmo
		if spec.Kind == PowerUpBoost {
			color = core.ColorBoost
		}
		Mesh.SetValue(entry, MeshData{
			Shapes: []Shape{
				Circle{Radius: r},
				Line{From: core.V(-r/2, 0), To: core.V(r/2, 0)},
			},
			Color: color,
			Scale: 1,
		})
		return e
	}
}

// FragmentSpec fixes the random choices for one explosion fragment.
type FragmentSpec struct {
	X, Y     float64
	Angle    float64
	Speed    float64
	Lifetime time.Duration
}

// SpawnFragment creates a short-lived fragment that shrinks as it flies.
func SpawnFragment(res *Resources, spec FragmentSpec) ecs.SpawnFunc {
	return func(w donburi.World) donburi.Entity {
		v := core.Heading(spec.Angle).Scale(spec.Speed)

		e := w.Create(Position, RigidBody, Lifetime, Tween, Garbage, Mesh)
		entry := w.Entry(e)

		Position.SetValue(entry, PositionData{X: spec.X, Y: spec.Y, Angle: spec.Angle})
		h := res.Physics.Insert(e, physics.BodyDesc{
			X: spec.X, Y: spec.Y, Angle: spec.Angle,
			VX: v.X, VY: v.Y,
			Radius: 1,
			Kind:   physics.KindFragment,
		})
		RigidBody.SetValue(entry, RigidBodyData{Handle: h})
		Lifetime.SetValue(entry, LifetimeData{Remaining: spec.Lifetime})
		Tween.SetValue(entry, NewSizeTween(EaseCubicIn, 1, 0, spec.Lifetime))
		Garbage.SetValue(entry, GarbageData{IsAlive: true})
		Mesh.SetValue(entry, MeshData{
			Shapes: []Shape{Line{From: core.V(-3, 0), To: core.V(3, 0)}},
			Color:  core.ColorExplosion,
			Scale:  1,
		})
		return e
	}
}

// SpawnBoundsExplosion marks where an entity left the arena. It has no body.
func SpawnBoundsExplosion(res *Resources, x, y float64) ecs.SpawnFunc {
	d := res.Settings.Explosion.BoundsLifetime.D()
	return func(w donburi.World) donburi.Entity {
		e := w.Create(Position, Lifetime, Tween, Garbage, Mesh)
		entry := w.Entry(e)

		Position.SetValue(entry, PositionData{X: x, Y: y})
		Lifetime.SetValue(entry, LifetimeData{Remaining: d})
		Tween.SetValue(entry, NewSizeTween(EaseCubicIn, 1, 0, d))
		Garbage.SetValue(entry, GarbageData{IsAlive: true})
		Mesh.SetValue(entry, MeshData{
			Shapes: []Shape{Circle{Radius: 6}},
			Color:  core.ColorExplosion,
			Scale:  1,
		})
		return e
	}
}

// randomFragment draws one fragment flying out of (x, y).
func randomFragment(res *Resources, x, y float64) FragmentSpec {
	ex := res.Settings.Explosion
	lo, hi := ex.MinLifetime.D(), ex.MaxLifetime.D()
	life := lo
	if hi > lo {
		life += time.Duration(res.Rand.Int63n(int64(hi - lo)))
	}
	return FragmentSpec{
		X: x, Y: y,
		Angle:    res.Rand.Float64() * 2 * math.Pi,
		Speed:    ex.MinSpeed + res.Rand.Float64()*(ex.MaxSpeed-ex.MinSpeed),
		Lifetime: life,
	}
}

// queueExplosion queues between lo and hi-1 fragments at (x, y).
func queueExplosion(ctx *Context, x, y float64, lo, hi int) int {
	n := lo
	if hi > lo {
		n += ctx.Res.Rand.Intn(hi - lo)
	}
	for i := 0; i < n; i++ {
		ctx.Commands.Spawn(SpawnFragment(ctx.Res, randomFragment(ctx.Res, x, y)))
	}
	return n
}

// randomAmmo places a pickup on a random arena edge, heading inward.
func randomAmmo(res *Resources) AmmoSpec {
	s := res.Settings
	rng := res.Rand
	w, h := s.Arena.Width, s.Arena.Height

	var x, y float64
	switch rng.Intn(4) {
	case 0: // top
		x, y = rng.Float64()*w, 0
	case 1: // right
		x, y = w, rng.Float64()*h
	case 2: // bottom
		x, y = rng.Float64()*w, h
	default: // left
		x, y = 0, rng.Float64()*h
	}

	// Aim at a point in the middle half of the arena.
	tx := w/4 + rng.Float64()*w/2
	ty := h/4 + rng.Float64()*h/2
	angle := math.Atan2(ty-y, tx-x)
	speed := s.Ammo.MinSpeed + rng.Float64()*(s.Ammo.MaxSpeed-s.Ammo.MinSpeed)
	v := core.Heading(angle).Scale(speed)

	kind := PowerUpAmmo
	if rng.Intn(4) == 0 {
		kind = PowerUpBoost
	}

	return AmmoSpec{
		X: x, Y: y,
		VX: v.X, VY: v.Y,
		Spin: (rng.Float64()*2 - 1) * s.Ammo.Spin,
		Kind: kind,
	}
}
