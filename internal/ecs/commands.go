// Package ecs provides the frame runtime layered on a donburi world:
// a deferred command buffer, a multi-reader event channel, and a scheduler
// that orders systems by declared dependencies and data access.
package ecs

import (
	"sync"

	"github.com/yohamta/donburi"
)

// SpawnFunc builds one entity (and anything paired with it) in the world.
type SpawnFunc func(w donburi.World) donburi.Entity

// ReleaseFunc runs just before an entity is removed, while its entry is
// still readable. It releases resources the entity references.
type ReleaseFunc func(entry *donburi.Entry)

type opKind uint8

const (
	opSpawn opKind = iota
	opDestroy
	opDo
)

type op struct {
	kind    opKind
	spawn   SpawnFunc
	entity  donburi.Entity
	release ReleaseFunc
	do      func(w donburi.World)
}

// Commands buffers structural changes made while systems iterate the
// world. Ops are applied in FIFO order by Apply. Safe for concurrent use.
type Commands struct {
	mu  sync.Mutex
	ops []op
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity creation.
func (c *Commands) Spawn(fn SpawnFunc) {
	if fn == nil {
		return
	}
	c.push(op{kind: opSpawn, spawn: fn})
}

// Destroy queues removal of e. release may be nil.
func (c *Commands) Destroy(e donburi.Entity, release ReleaseFunc) {
	c.push(op{kind: opDestroy, entity: e, release: release})
}

// Do queues an arbitrary world mutation, e.g. setting a component.
func (c *Commands) Do(fn func(w donburi.World)) {
	if fn == nil {
		return
	}
	c.push(op{kind: opDo, do: fn})
}

func (c *Commands) push(o op) {
	c.mu.Lock()
	c.ops = append(c.ops, o)
	c.mu.Unlock()
}

// Len returns the number of pending ops.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

// ApplyStats reports what an Apply call did.
type ApplyStats struct {
	Spawned   int
	Destroyed int
	Skipped   int // destroys of entities that were already gone
	Other     int
}

// Apply executes pending ops against w and clears the buffer. Ops queued
// by ops themselves run in the same call, after everything queued before.
func (c *Commands) Apply(w donburi.World) ApplyStats {
	var stats ApplyStats
	for {
		c.mu.Lock()
		pending := c.ops
		c.ops = nil
		c.mu.Unlock()

		if len(pending) == 0 {
			return stats
		}

		for _, o := range pending {
			switch o.kind {
			case opSpawn:
				o.spawn(w)
				stats.Spawned++
			case opDestroy:
				if !w.Valid(o.entity) {
					stats.Skipped++
					continue
				}
				if o.release != nil {
					o.release(w.Entry(o.entity))
				}
				w.Remove(o.entity)
				stats.Destroyed++
			case opDo:
				o.do(w)
				stats.Other++
			}
		}
	}
}
