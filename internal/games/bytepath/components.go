package bytepath

import (
	"time"

	"github.com/yohamta/donburi"

	"github.com/vovakirdan/bytepath/internal/config"
	"github.com/vovakirdan/bytepath/internal/physics"
)

// PositionData is an entity's world transform. For bodies it is copied
// from the physics world once per frame.
type PositionData struct {
	X, Y  float64
	Angle float64
}

// RigidBodyData points at a body owned by the physics world.
type RigidBodyData struct {
	Handle physics.Handle
}

// BoundsData is the rectangle an entity must stay inside.
type BoundsData struct {
	XMin, XMax float64
	YMin, YMax float64
	Policy     config.BoundsPolicy
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (b BoundsData) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// ShootingData gates projectile spawning on the simulation clock.
type ShootingData struct {
	Interval    time.Duration
	LastFiredAt time.Duration
}

// LifetimeData counts down to the entity's death.
type LifetimeData struct {
	Remaining time.Duration
}

// GarbageData is the soft-delete flag reaped by the garbage system.
type GarbageData struct {
	IsAlive bool
}

// PowerUp is the kind of pickup.
type PowerUp uint8

const (
	PowerUpAmmo PowerUp = iota
	PowerUpBoost
)

func (p PowerUp) String() string {
	if p == PowerUpBoost {
		return "boost"
	}
	return "ammo"
}

// PickupData marks an entity counted against the spawn cap.
type PickupData struct {
	Kind PowerUp
}

var (
	Position            = donburi.NewComponentType[PositionData]()
	RigidBody           = donburi.NewComponentType[RigidBodyData]()
	Bounds              = donburi.NewComponentType[BoundsData]()
	ExplodeOnBoundsExit = donburi.NewComponentType[struct{}]()
	Controllable        = donburi.NewComponentType[struct{}]()
	Shooting            = donburi.NewComponentType[ShootingData]()
	Lifetime            = donburi.NewComponentType[LifetimeData]()
	Tween               = donburi.NewComponentType[TweenData]()
	Garbage             = donburi.NewComponentType[GarbageData](GarbageData{IsAlive: true})
	Mesh                = donburi.NewComponentType[MeshData]()
	Pickup              = donburi.NewComponentType[PickupData]()
)
