package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// ColliderKind labels a collider with its gameplay role. It is stored on
// the shape at creation and doubles as the shape's collision type.
type ColliderKind uint8

const (
	KindNone ColliderKind = iota
	KindPlayer
	KindPlayerProjectile
	KindAmmo
	KindFragment
)

var kindNames = map[ColliderKind]string{
	KindNone:             "none",
	KindPlayer:           "player",
	KindPlayerProjectile: "player_projectile",
	KindAmmo:             "ammo",
	KindFragment:         "fragment",
}

func (k ColliderKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ColliderKind(%d)", uint8(k))
}

// Collision categories. Fragments belong to none and collide with nothing.
const (
	catPlayer uint = 1 << iota
	catProjectile
	catAmmo
)

func (k ColliderKind) filter() cp.ShapeFilter {
	switch k {
	case KindPlayer:
		return cp.NewShapeFilter(cp.NO_GROUP, catPlayer, catAmmo)
	case KindPlayerProjectile:
		return cp.NewShapeFilter(cp.NO_GROUP, catProjectile, catAmmo)
	case KindAmmo:
		return cp.NewShapeFilter(cp.NO_GROUP, catAmmo, catPlayer|catProjectile)
	default:
		return cp.NewShapeFilter(cp.NO_GROUP, 0, 0)
	}
}

// contactPairs lists kind pairs whose contacts are reported.
var contactPairs = [][2]ColliderKind{
	{KindPlayer, KindAmmo},
	{KindPlayerProjectile, KindAmmo},
}
