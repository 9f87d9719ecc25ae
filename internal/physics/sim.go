// Package physics adapts a Chipmunk2D space to the entity store: it owns
// every rigid body, indexes bodies by generation-checked handles, maps
// handles back to entities and turns contact-started callbacks into typed
// collision events.
package physics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/yohamta/donburi"
)

// ErrUnknownHandle is returned for handles that are stale or were never issued.
var ErrUnknownHandle = errors.New("physics: unknown body handle")

// Handle addresses a body slot. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("body#%d.%d", h.index, h.gen)
}

// BodyDesc describes a body to insert.
type BodyDesc struct {
	X, Y            float64
	Angle           float64
	VX, VY          float64
	AngularVelocity float64
	Radius          float64
	Mass            float64 // defaults to 1
	Kind            ColliderKind
	Sensor          bool
}

type slot struct {
	body *cp.Body
	gen  uint32
	live bool
}

type contact struct {
	a, b *cp.Shape
}

// Sim owns the physics world. Inserting and removing bodies keeps the
// space, the slot arena and the entity index in lockstep.
type Sim struct {
	space    *cp.Space
	slots    []slot
	free     []uint32
	entities map[Handle]donburi.Entity
	contacts []contact
	log      *log.Logger
}

// NewSim creates an empty zero-gravity world. logger may be nil.
func NewSim(logger *log.Logger) *Sim {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Sim{
		space:    cp.NewSpace(),
		entities: make(map[Handle]donburi.Entity),
		log:      logger,
	}
	s.space.SetGravity(cp.Vector{})

	for _, pair := range contactPairs {
		h := s.space.NewCollisionHandler(cp.CollisionType(pair[0]), cp.CollisionType(pair[1]))
		h.BeginFunc = s.recordContact
	}
	return s
}

func (s *Sim) recordContact(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Shapes()
	s.contacts = append(s.contacts, contact{a: a, b: b})
	return true
}

// Insert creates a circle body for entity e and returns its handle.
func (s *Sim) Insert(e donburi.Entity, d BodyDesc) Handle {
	mass := d.Mass
	if mass <= 0 {
		mass = 1
	}
	radius := math.Max(d.Radius, 0.01)

	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: d.X, Y: d.Y})
	body.SetAngle(d.Angle)
	body.SetVelocity(d.VX, d.VY)
	body.SetAngularVelocity(d.AngularVelocity)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(cp.CollisionType(d.Kind))
	shape.SetFilter(d.Kind.filter())
	shape.SetSensor(d.Sensor)
	shape.UserData = d.Kind

	s.space.AddBody(body)
	s.space.AddShape(shape)

	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}
	sl := &s.slots[idx]
	sl.gen++
	sl.body = body
	sl.live = true

	h := Handle{index: idx, gen: sl.gen}
	body.UserData = h
	s.entities[h] = e
	return h
}

// Remove destroys the body behind h and its index entry.
func (s *Sim) Remove(h Handle) error {
	body, ok := s.lookup(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}

	var shapes []*cp.Shape
	body.EachShape(func(shape *cp.Shape) {
		shapes = append(shapes, shape)
	})
	for _, shape := range shapes {
		s.space.RemoveShape(shape)
	}
	s.space.RemoveBody(body)

	sl := &s.slots[h.index]
	sl.body = nil
	sl.live = false
	s.free = append(s.free, h.index)
	delete(s.entities, h)
	return nil
}

func (s *Sim) lookup(h Handle) (*cp.Body, bool) {
	if h.IsZero() || int(h.index) >= len(s.slots) {
		return nil, false
	}
	sl := s.slots[h.index]
	if !sl.live || sl.gen != h.gen {
		return nil, false
	}
	return sl.body, true
}

// Contains reports whether h refers to a live body.
func (s *Sim) Contains(h Handle) bool {
	_, ok := s.lookup(h)
	return ok
}

// Entity returns the entity that owns h.
func (s *Sim) Entity(h Handle) (donburi.Entity, bool) {
	e, ok := s.entities[h]
	return e, ok
}

// Len returns the number of live bodies.
func (s *Sim) Len() int {
	return len(s.entities)
}

// Transform returns the body's position and rotation.
func (s *Sim) Transform(h Handle) (x, y, angle float64, err error) {
	body, ok := s.lookup(h)
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	p := body.Position()
	return p.X, p.Y, body.Angle(), nil
}

// SetTransform moves the body.
func (s *Sim) SetTransform(h Handle, x, y, angle float64) error {
	body, ok := s.lookup(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.SetAngle(angle)
	return nil
}

// Velocity returns the body's linear velocity.
func (s *Sim) Velocity(h Handle) (vx, vy float64, err error) {
	body, ok := s.lookup(h)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	v := body.Velocity()
	return v.X, v.Y, nil
}

// SetVelocity sets the body's linear velocity.
func (s *Sim) SetVelocity(h Handle, vx, vy float64) error {
	body, ok := s.lookup(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	body.SetVelocity(vx, vy)
	return nil
}

// Step advances the world by dt and returns the collisions that started
// during the step. Contacts whose bodies or entities cannot be resolved
// are logged and skipped. Pairs without gameplay meaning are dropped.
func (s *Sim) Step(dt time.Duration) []CollisionEvent {
	s.contacts = s.contacts[:0]
	if dt > 0 {
		s.space.Step(dt.Seconds())
	}

	var events []CollisionEvent
	for _, c := range s.contacts {
		ka, ea, okA := s.resolve(c.a)
		kb, eb, okB := s.resolve(c.b)
		if !okA || !okB {
			continue
		}
		typ, ok := Classify(ka, ea, kb, eb)
		if !ok {
			continue
		}
		p := c.b.Body().Position()
		events = append(events, CollisionEvent{Type: typ, X: p.X, Y: p.Y})
	}
	return events
}

func (s *Sim) resolve(shape *cp.Shape) (ColliderKind, donburi.Entity, bool) {
	kind, ok := shape.UserData.(ColliderKind)
	if !ok || kind == KindNone {
		s.log.Warn("collider without kind", "user_data", shape.UserData)
		return KindNone, donburi.Null, false
	}
	h, ok := shape.Body().UserData.(Handle)
	if !ok || !s.Contains(h) {
		s.log.Warn("contact on unindexed body", "kind", kind)
		return KindNone, donburi.Null, false
	}
	e, ok := s.entities[h]
	if !ok {
		s.log.Warn("body handle without entity", "handle", h, "kind", kind)
		return KindNone, donburi.Null, false
	}
	return kind, e, true
}
