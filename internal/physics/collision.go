package physics

import "github.com/yohamta/donburi"

// CollisionType is the closed set of gameplay collisions.
type CollisionType interface {
	collisionType()
}

// PlayerAmmo reports the player touching an ammo pickup.
type PlayerAmmo struct {
	Player donburi.Entity
	Ammo   donburi.Entity
}

// ProjectileAmmo reports a player projectile hitting an ammo pickup.
type ProjectileAmmo struct {
	Projectile donburi.Entity
	Ammo       donburi.Entity
}

func (PlayerAmmo) collisionType()     {}
func (ProjectileAmmo) collisionType() {}

// CollisionEvent is one classified contact-started event.
type CollisionEvent struct {
	Type CollisionType
	X, Y float64
}

// Classify maps two labelled colliders to a collision type. Argument
// order does not matter. ok is false for pairs with no gameplay meaning.
func Classify(ka ColliderKind, ea donburi.Entity, kb ColliderKind, eb donburi.Entity) (CollisionType, bool) {
	if ka > kb {
		ka, kb = kb, ka
		ea, eb = eb, ea
	}
	switch {
	case ka == KindPlayer && kb == KindAmmo:
		return PlayerAmmo{Player: ea, Ammo: eb}, true
	case ka == KindPlayerProjectile && kb == KindAmmo:
		return ProjectileAmmo{Projectile: ea, Ammo: eb}, true
	}
	return nil, false
}
