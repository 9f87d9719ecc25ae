package ecs

import "sync"

// ReaderID identifies a registered Channel reader.
type ReaderID uint32

type cursor struct {
	pos  uint64 // absolute index of the next unread event
	lost uint64
}

// Channel is an append-only event sequence with independent reader
// cursors. Every registered reader sees every event written after it
// registered, exactly once, unless the retention limit forces the oldest
// events out before the reader got to them.
type Channel[T any] struct {
	mu        sync.Mutex
	buf       []T
	base      uint64 // absolute index of buf[0]
	readers   map[ReaderID]*cursor
	nextID    ReaderID
	retention int
	dropped   uint64
}

// NewChannel creates a channel that buffers at most retention unread
// events. retention <= 0 means unbounded.
func NewChannel[T any](retention int) *Channel[T] {
	return &Channel[T]{
		readers:   make(map[ReaderID]*cursor),
		retention: retention,
	}
}

// Register adds a reader positioned at the current end of the channel.
func (c *Channel[T]) Register() ReaderID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.readers[id] = &cursor{pos: c.base + uint64(len(c.buf))}
	return id
}

// Unregister removes a reader. Events only it was holding are released.
func (c *Channel[T]) Unregister(id ReaderID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.readers, id)
	c.compact()
}

// Write appends events.
func (c *Channel[T]) Write(events ...T) {
	if len(events) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf = append(c.buf, events...)
	c.enforceRetention()
	c.compact()
}

// Read returns the events written since the reader's last Read and moves
// its cursor past them. Unknown readers get nil.
func (c *Channel[T]) Read(id ReaderID) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.readers[id]
	if !ok {
		return nil
	}
	end := c.base + uint64(len(c.buf))
	if cur.pos >= end {
		return nil
	}

	out := make([]T, end-cur.pos)
	copy(out, c.buf[cur.pos-c.base:])
	cur.pos = end
	c.compact()
	return out
}

// Len returns the number of buffered events.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Pending returns how many events the reader has not read yet.
func (c *Channel[T]) Pending(id ReaderID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.readers[id]
	if !ok {
		return 0
	}
	return int(c.base + uint64(len(c.buf)) - cur.pos)
}

// Lost returns how many events the reader missed to retention.
func (c *Channel[T]) Lost(id ReaderID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.readers[id]; ok {
		return cur.lost
	}
	return 0
}

// Dropped returns the total number of events discarded by retention.
func (c *Channel[T]) Dropped() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// enforceRetention drops the oldest events past the limit and moves
// starving readers forward. Caller holds mu.
func (c *Channel[T]) enforceRetention() {
	if c.retention <= 0 || len(c.buf) <= c.retention {
		return
	}
	excess := len(c.buf) - c.retention
	newBase := c.base + uint64(excess)
	for _, cur := range c.readers {
		if cur.pos < newBase {
			cur.lost += newBase - cur.pos
			cur.pos = newBase
		}
	}
	c.shift(excess)
	c.dropped += uint64(excess)
}

// compact releases events every reader has consumed. Caller holds mu.
func (c *Channel[T]) compact() {
	end := c.base + uint64(len(c.buf))
	low := end
	for _, cur := range c.readers {
		if cur.pos < low {
			low = cur.pos
		}
	}
	if low > c.base {
		c.shift(int(low - c.base))
	}
}

// shift discards the first n buffered events. Caller holds mu.
func (c *Channel[T]) shift(n int) {
	var zero T
	for i := 0; i < n; i++ {
		c.buf[i] = zero
	}
	c.buf = c.buf[n:]
	c.base += uint64(n)
	if len(c.buf) == 0 {
		c.buf = c.buf[:0:0]
	}
}
