package physics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/yohamta/donburi"
)

var testTag = donburi.NewComponentType[struct{}]()

func newEntities(n int) []donburi.Entity {
	w := donburi.NewWorld()
	out := make([]donburi.Entity, n)
	for i := range out {
		out[i] = w.Create(testTag)
	}
	return out
}

const frame = time.Second / 60

func TestInsertRemoveLockstep(t *testing.T) {
	s := NewSim(nil)
	es := newEntities(2)

	h1 := s.Insert(es[0], BodyDesc{X: 10, Y: 10, Radius: 2, Kind: KindPlayer})
	h2 := s.Insert(es[1], BodyDesc{X: 50, Y: 50, Radius: 2, Kind: KindAmmo})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if e, ok := s.Entity(h2); !ok || e != es[1] {
		t.Errorf("Entity(h2) = %v, %v; want %v", e, ok, es[1])
	}

	if err := s.Remove(h1); err != nil {
		t.Fatalf("Remove(h1) error = %v", err)
	}
	if s.Contains(h1) {
		t.Error("removed handle still live")
	}
	if _, ok := s.Entity(h1); ok {
		t.Error("removed handle still indexed")
	}
	if err := s.Remove(h1); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("second Remove error = %v, want ErrUnknownHandle", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	s := NewSim(nil)
	es := newEntities(2)

	old := s.Insert(es[0], BodyDesc{Radius: 1, Kind: KindFragment})
	if err := s.Remove(old); err != nil {
		t.Fatal(err)
	}
	reused := s.Insert(es[1], BodyDesc{Radius: 1, Kind: KindFragment})

	if old == reused {
		t.Fatal("reused slot produced an identical handle")
	}
	if s.Contains(old) {
		t.Error("stale handle resolves after slot reuse")
	}
	if _, _, _, err := s.Transform(old); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Transform(stale) error = %v, want ErrUnknownHandle", err)
	}
	if err := s.SetVelocity(Handle{}, 1, 1); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("SetVelocity(zero) error = %v, want ErrUnknownHandle", err)
	}
}

func TestStepMovesBodies(t *testing.T) {
	s := NewSim(nil)
	es := newEntities(1)
	h := s.Insert(es[0], BodyDesc{X: 0, Y: 0, VX: 60, Radius: 1, Kind: KindFragment})

	for i := 0; i < 60; i++ {
		s.Step(frame)
	}

	x, y, _, err := s.Transform(h)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x-60) > 0.5 || math.Abs(y) > 1e-9 {
		t.Errorf("position after 1s = (%.3f, %.3f), want (60, 0)", x, y)
	}
}

func TestStepPlayerAmmoContact(t *testing.T) {
	for _, playerFirst := range []bool{true, false} {
		s := NewSim(nil)
		es := newEntities(2)
		player, ammo := es[0], es[1]

		insertPlayer := func() { s.Insert(player, BodyDesc{X: 100, Y: 100, Radius: 10, Kind: KindPlayer}) }
		insertAmmo := func() { s.Insert(ammo, BodyDesc{X: 105, Y: 100, Radius: 8, Kind: KindAmmo, Sensor: true}) }
		if playerFirst {
			insertPlayer()
			insertAmmo()
		} else {
			insertAmmo()
			insertPlayer()
		}

		events := s.Step(frame)
		if len(events) != 1 {
			t.Fatalf("playerFirst=%v: got %d events, want 1", playerFirst, len(events))
		}
		pa, ok := events[0].Type.(PlayerAmmo)
		if !ok {
			t.Fatalf("event type = %T, want PlayerAmmo", events[0].Type)
		}
		if pa.Player != player || pa.Ammo != ammo {
			t.Errorf("PlayerAmmo = %+v, want player %v ammo %v", pa, player, ammo)
		}

		// The contact persists but has already started.
		if again := s.Step(frame); len(again) != 0 {
			t.Errorf("persisting contact reported again: %v", again)
		}
	}
}

func TestStepProjectileAmmoContact(t *testing.T) {
	s := NewSim(nil)
	es := newEntities(2)
	s.Insert(es[0], BodyDesc{X: 0, Y: 0, Radius: 3, Kind: KindPlayerProjectile})
	s.Insert(es[1], BodyDesc{X: 2, Y: 0, Radius: 8, Kind: KindAmmo, Sensor: true})

	events := s.Step(frame)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if pa, ok := events[0].Type.(ProjectileAmmo); !ok || pa.Projectile != es[0] || pa.Ammo != es[1] {
		t.Errorf("event = %+v, want ProjectileAmmo{%v %v}", events[0].Type, es[0], es[1])
	}
}

func TestStepFilteredPairsProduceNothing(t *testing.T) {
	tests := []struct {
		name string
		a, b ColliderKind
	}{
		{"player and projectile", KindPlayer, KindPlayerProjectile},
		{"fragment and ammo", KindFragment, KindAmmo},
		{"fragment and player", KindFragment, KindPlayer},
		{"ammo and ammo", KindAmmo, KindAmmo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSim(nil)
			es := newEntities(2)
			s.Insert(es[0], BodyDesc{X: 0, Y: 0, Radius: 5, Kind: tt.a})
			s.Insert(es[1], BodyDesc{X: 1, Y: 0, Radius: 5, Kind: tt.b})
			if events := s.Step(frame); len(events) != 0 {
				t.Errorf("got %d events, want none", len(events))
			}
		})
	}
}

func TestClassifySymmetric(t *testing.T) {
	es := newEntities(2)
	a, b := es[0], es[1]

	tests := []struct {
		name   string
		ka, kb ColliderKind
		ea, eb donburi.Entity
		want   CollisionType
	}{
		{"player ammo", KindPlayer, KindAmmo, a, b, PlayerAmmo{Player: a, Ammo: b}},
		{"ammo player", KindAmmo, KindPlayer, b, a, PlayerAmmo{Player: a, Ammo: b}},
		{"projectile ammo", KindPlayerProjectile, KindAmmo, a, b, ProjectileAmmo{Projectile: a, Ammo: b}},
		{"ammo projectile", KindAmmo, KindPlayerProjectile, b, a, ProjectileAmmo{Projectile: a, Ammo: b}},
		{"player player", KindPlayer, KindPlayer, a, b, nil},
		{"fragment ammo", KindFragment, KindAmmo, a, b, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.ka, tt.ea, tt.kb, tt.eb)
			if ok != (tt.want != nil) {
				t.Fatalf("Classify ok = %v, want %v", ok, tt.want != nil)
			}
			if got != tt.want {
				t.Errorf("Classify = %+v, want %+v", got, tt.want)
			}
		})
	}
}
