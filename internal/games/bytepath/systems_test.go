package bytepath

import (
	"io"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/bytepath/internal/config"
	"github.com/vovakirdan/bytepath/internal/ecs"
	"github.com/vovakirdan/bytepath/internal/physics"
)

const frame = time.Second / 60

func testSettings() config.Settings {
	s := config.DefaultSettings()
	s.Difficulty.Enabled = false
	return s
}

func newHarness(mode Mode, s config.Settings) (donburi.World, *Resources) {
	l := log.New(io.Discard)
	res := &Resources{
		Time:       Time{Delta: frame},
		Settings:   s,
		Physics:    physics.NewSim(l),
		Collisions: ecs.NewChannel[physics.CollisionEvent](0),
		Difficulty: config.NewDifficultyManager(s.Difficulty),
		Rand:       rand.New(rand.NewSource(1)),
		Log:        l,
		Mode:       mode,
	}
	return donburi.NewWorld(), res
}

// runSystem runs one system and applies its commands.
func runSystem(sys ecs.System[Resources], w donburi.World, res *Resources) ecs.ApplyStats {
	cmds := ecs.NewCommands()
	sys.Run(&Context{World: w, Commands: cmds, Res: res})
	return cmds.Apply(w)
}

func TestLifetimeSaturates(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	e := w.Create(Lifetime, Garbage)
	entry := w.Entry(e)
	Lifetime.SetValue(entry, LifetimeData{Remaining: 50 * time.Millisecond})
	Garbage.SetValue(entry, GarbageData{IsAlive: true})

	deltas := []time.Duration{16 * time.Millisecond, 30 * time.Millisecond, 100 * time.Millisecond, time.Hour}
	prev := Lifetime.Get(entry).Remaining
	for i, dt := range deltas {
		res.Time.Delta = dt
		runSystem(LifetimeSystem{}, w, res)

		got := Lifetime.Get(entry).Remaining
		if got < 0 {
			t.Fatalf("step %d: remaining went negative: %v", i, got)
		}
		if got > prev {
			t.Fatalf("step %d: remaining increased from %v to %v", i, prev, got)
		}
		prev = got
	}

	if Lifetime.Get(entry).Remaining != 4*time.Millisecond {
		t.Errorf("remaining = %v, want 4ms held after exhaustion", Lifetime.Get(entry).Remaining)
	}
	if Garbage.Get(entry).IsAlive {
		t.Error("entity still alive after lifetime ran out")
	}
}

func TestLifetimeExactDeltaReachesZero(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	e := w.Create(Lifetime, Garbage)
	entry := w.Entry(e)
	Lifetime.SetValue(entry, LifetimeData{Remaining: frame})
	Garbage.SetValue(entry, GarbageData{IsAlive: true})

	runSystem(LifetimeSystem{}, w, res)
	if Lifetime.Get(entry).Remaining != 0 || !Garbage.Get(entry).IsAlive {
		t.Fatalf("after exact delta: remaining=%v alive=%v, want 0 and alive", Lifetime.Get(entry).Remaining, Garbage.Get(entry).IsAlive)
	}

	runSystem(LifetimeSystem{}, w, res)
	if Garbage.Get(entry).IsAlive {
		t.Error("exhausted lifetime did not mark entity dead")
	}
}

func TestGarbageReapsExactlyDeadEntities(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())

	var entities []donburi.Entity
	var handles []physics.Handle
	for i := 0; i < 4; i++ {
		e := SpawnAmmo(res, AmmoSpec{X: float64(100 * (i + 1)), Y: 100})(w)
		entities = append(entities, e)
		handles = append(handles, RigidBody.Get(w.Entry(e)).Handle)
	}
	res.Spawn.AmmoCount = 4

	dead := map[int]bool{0: true, 2: true}
	for i := range dead {
		Garbage.Get(w.Entry(entities[i])).IsAlive = false
	}

	stats := runSystem(GarbageSystem{}, w, res)
	if stats.Destroyed != len(dead) {
		t.Errorf("Destroyed = %d, want %d", stats.Destroyed, len(dead))
	}

	for i, e := range entities {
		if dead[i] {
			if w.Valid(e) {
				t.Errorf("dead entity %d survived", i)
			}
			if res.Physics.Contains(handles[i]) {
				t.Errorf("dead entity %d kept its body", i)
			}
			if _, ok := res.Physics.Entity(handles[i]); ok {
				t.Errorf("dead entity %d still in handle index", i)
			}
			continue
		}
		if !w.Valid(e) {
			t.Errorf("live entity %d was reaped", i)
		}
		if got, ok := res.Physics.Entity(handles[i]); !ok || got != e {
			t.Errorf("live entity %d lost its index entry", i)
		}
	}

	if res.Spawn.AmmoCount != 2 {
		t.Errorf("AmmoCount = %d, want 2", res.Spawn.AmmoCount)
	}
	if res.Physics.Len() != 2 {
		t.Errorf("bodies = %d, want 2", res.Physics.Len())
	}
}

func TestGarbageMarksPlayerDown(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	e := SpawnPlayer(res)(w)
	Garbage.Get(w.Entry(e)).IsAlive = false

	runSystem(GarbageSystem{}, w, res)
	runSystem(RoundSystem{}, w, res)

	if !res.Round.PlayerDown || !res.Round.Over {
		t.Errorf("round = %+v, want player down and over", res.Round)
	}
}

func TestSteeringTurnsByFixedIncrement(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		sign  float64
	}{
		{"left", Input{Left: true}, -1},
		{"right", Input{Right: true}, 1},
		{"both prefers left", Input{Left: true, Right: true}, -1},
		{"none", Input{}, 0},
	}

	const n = 40
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, res := newHarness(ModeStandard, testSettings())
			e := SpawnPlayer(res)(w)
			h := RigidBody.Get(w.Entry(e)).Handle
			_, _, initial, _ := res.Physics.Transform(h)

			res.Input = tt.input
			for i := 0; i < n; i++ {
				runSystem(ControllableSystem{}, w, res)
			}

			_, _, got, err := res.Physics.Transform(h)
			if err != nil {
				t.Fatal(err)
			}
			k := res.Settings.Player.TurnRate
			want := math.Mod(initial+tt.sign*n*k, 2*math.Pi)
			if want < 0 {
				want += 2 * math.Pi
			}
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("heading = %.6f, want %.6f", got, want)
			}
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("heading %.6f outside [0, 2π)", got)
			}
		})
	}
}

func TestSteeringSpeedModifiers(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		mult  float64
	}{
		{"cruise", Input{}, 1},
		{"boost", Input{Up: true}, 1.5},
		{"slow", Input{Down: true}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, res := newHarness(ModeStandard, testSettings())
			e := SpawnPlayer(res)(w)
			res.Input = tt.input
			runSystem(ControllableSystem{}, w, res)

			vx, vy, err := res.Physics.Velocity(RigidBody.Get(w.Entry(e)).Handle)
			if err != nil {
				t.Fatal(err)
			}
			want := res.Settings.Player.Speed * tt.mult
			if got := math.Hypot(vx, vy); math.Abs(got-want) > 1e-9 {
				t.Errorf("speed = %.3f, want %.3f", got, want)
			}
		})
	}
}

func TestClassicAttackBurstsFragments(t *testing.T) {
	w, res := newHarness(ModeClassic, testSettings())
	e := SpawnPlayer(res)(w)
	if w.Entry(e).HasComponent(Shooting) {
		t.Error("classic player should not shoot")
	}

	res.Input = Input{Attack: true}
	stats := runSystem(ControllableSystem{}, w, res)
	if stats.Spawned < burstMin || stats.Spawned >= burstMax {
		t.Errorf("burst spawned %d fragments, want [%d, %d)", stats.Spawned, burstMin, burstMax)
	}
}

func TestBoundsKillQueuesOneExplosion(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	e := SpawnProjectile(res, 50, 50, 0)(w)
	entry := w.Entry(e)
	Position.SetValue(entry, PositionData{X: -5, Y: 42})

	stats := runSystem(BoundsSystem{}, w, res)
	if Garbage.Get(entry).IsAlive {
		t.Fatal("projectile outside bounds still alive")
	}
	if stats.Spawned != 1 {
		t.Fatalf("queued %d explosions, want 1", stats.Spawned)
	}

	explosions := donburi.NewQuery(filter.And(
		filter.Contains(Lifetime, Tween),
		filter.Not(filter.Contains(RigidBody)),
	))
	count := 0
	explosions.Each(w, func(ex *donburi.Entry) {
		count++
		p := Position.Get(ex)
		if p.X != -5 || p.Y != 42 {
			t.Errorf("explosion at (%.1f, %.1f), want (-5, 42)", p.X, p.Y)
		}
	})
	if count != 1 {
		t.Errorf("explosions in world = %d, want 1", count)
	}

	if again := runSystem(BoundsSystem{}, w, res); again.Spawned != 0 {
		t.Errorf("second pass queued %d explosions, want 0", again.Spawned)
	}
}

func TestBoundsKillWithoutExplodeTag(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	e := SpawnAmmo(res, AmmoSpec{X: 10, Y: 10})(w)
	Position.SetValue(w.Entry(e), PositionData{X: 10, Y: -1000})

	stats := runSystem(BoundsSystem{}, w, res)
	if Garbage.Get(w.Entry(e)).IsAlive {
		t.Error("ammo outside bounds still alive")
	}
	if stats.Spawned != 0 {
		t.Errorf("queued %d explosions for untagged entity", stats.Spawned)
	}
}

func TestBoundsClampHoldsPlayer(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	e := SpawnPlayer(res)(w)
	entry := w.Entry(e)
	b := *Bounds.Get(entry)
	Position.SetValue(entry, PositionData{X: b.XMax + 50, Y: b.YMin - 50, Angle: 1})

	runSystem(BoundsSystem{}, w, res)

	pos := Position.Get(entry)
	if pos.X != b.XMax || pos.Y != b.YMin {
		t.Errorf("clamped to (%.1f, %.1f), want (%.1f, %.1f)", pos.X, pos.Y, b.XMax, b.YMin)
	}
	x, y, angle, _ := res.Physics.Transform(RigidBody.Get(entry).Handle)
	if x != b.XMax || y != b.YMin || angle != 1 {
		t.Errorf("body at (%.1f, %.1f, %.2f), want clamped transform", x, y, angle)
	}
	if !Garbage.Get(entry).IsAlive {
		t.Error("clamped player marked dead")
	}
}

func TestTweenSystemScalesMesh(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	e := SpawnBoundsExplosion(res, 0, 0)(w)
	entry := w.Entry(e)
	d := res.Settings.Explosion.BoundsLifetime.D()

	res.Time.Delta = d / 2
	runSystem(TweenSystem{}, w, res)
	want := 1 - EaseCubicIn.Apply(0.5)
	if got := Mesh.Get(entry).Scale; math.Abs(got-want) > 1e-9 {
		t.Errorf("scale at half = %.4f, want %.4f", got, want)
	}

	runSystem(TweenSystem{}, w, res)
	runSystem(TweenSystem{}, w, res)
	if got := Mesh.Get(entry).Scale; got != 0 {
		t.Errorf("scale after end = %.4f, want 0", got)
	}
}

func TestShootingCadence(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	SpawnPlayer(res)(w)
	interval := res.Settings.Player.ShootInterval.D()

	fired := 0
	frames := int(time.Second / frame)
	for i := 0; i < frames; i++ {
		res.Time.Elapsed += frame
		fired += runSystem(ShootingSystem{}, w, res).Spawned
	}

	want := int(time.Second / interval)
	if fired < want-1 || fired > want {
		t.Errorf("fired %d shots in 1s with %v interval, want about %d", fired, interval, want)
	}
}

func TestSpawnRespectsCap(t *testing.T) {
	w, res := newHarness(ModeStandard, testSettings())
	res.Settings.Spawn.AmmoEvery = config.Duration(time.Millisecond)
	res.Settings.Spawn.AmmoMax = 4

	for i := 0; i < 100; i++ {
		res.Time.Elapsed += frame
		runSystem(SpawnSystem{}, w, res)
	}

	pickups := donburi.NewQuery(filter.Contains(Pickup))
	if got := pickups.Count(w); got != 4 {
		t.Errorf("live pickups = %d, want 4", got)
	}
	if res.Spawn.AmmoCount != 4 {
		t.Errorf("AmmoCount = %d, want 4", res.Spawn.AmmoCount)
	}
}

func TestSpawnCapHoldsUnderDifficulty(t *testing.T) {
	for _, preset := range []config.DifficultyPreset{"", config.DifficultyNormal, config.DifficultyHard} {
		t.Run(string(preset), func(t *testing.T) {
			s := config.DefaultSettings()
			config.ApplyPreset(&s, preset)
			s.Spawn.AmmoEvery = config.Duration(time.Millisecond)

			w, res := newHarness(ModeStandard, s)
			res.Difficulty = config.NewDifficultyManager(s.Difficulty)
			res.Score.Points = 500

			pickups := donburi.NewQuery(filter.Contains(Pickup))
			for i := 0; i < 200; i++ {
				res.Time.Elapsed += frame
				res.Time.Frame++
				runSystem(SpawnSystem{}, w, res)
				if n := pickups.Count(w); n > s.Spawn.AmmoMax {
					t.Fatalf("frame %d: %d live pickups exceed ammo_max %d", i, n, s.Spawn.AmmoMax)
				}
			}
			if got := pickups.Count(w); got != s.Spawn.AmmoMax {
				t.Errorf("live pickups = %d, want ammo_max %d", got, s.Spawn.AmmoMax)
			}
		})
	}
}

func TestNewSchedulerOrder(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		s, err := newScheduler(config.SimulationConfig{Parallel: parallel, Workers: 4})
		if err != nil {
			t.Fatalf("parallel=%v: %v", parallel, err)
		}

		pos := map[string]int{}
		for i, name := range s.Order() {
			pos[name] = i
		}
		before := [][2]string{
			{"controllable", "physics"},
			{"physics", "position"},
			{"physics", "collision"},
			{"position", "bounds"},
			{"position", "shooting"},
			{"bounds", "garbage"},
			{"lifetime", "garbage"},
			{"collision", "garbage"},
			{"garbage", "round"},
		}
		for _, p := range before {
			if pos[p[0]] >= pos[p[1]] {
				t.Errorf("parallel=%v: %s runs after %s", parallel, p[0], p[1])
			}
		}
		if len(pos) != 11 {
			t.Errorf("parallel=%v: scheduled %d systems, want 11", parallel, len(pos))
		}
	}
}
