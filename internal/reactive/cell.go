// Package reactive provides last-value-wins state cells and an explicit
// combine-latest join over their subscriptions.
package reactive

import (
	"context"
	"sync"
)

// Cell holds the current value of a single-writer, multi-reader input.
// New subscribers immediately receive the latest value, if any.
type Cell[T any] struct {
	mu     sync.Mutex
	value  T
	has    bool
	nextID int
	subs   map[int]chan T
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v, has: true, subs: make(map[int]chan T)}
}

// NewEmptyCell returns a cell with no value yet. Subscribers receive nothing
// until the first Set.
func NewEmptyCell[T any]() *Cell[T] {
	return &Cell[T]{subs: make(map[int]chan T)}
}

// Set stores v and delivers it to every subscriber. A subscriber that has
// not consumed the previous value sees only v.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value, c.has = v, true
	for _, ch := range c.subs {
		offer(ch, v)
	}
}

// Get returns the current value and whether one has been set.
func (c *Cell[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.has
}

// Subscribe returns a channel carrying the latest value and every later
// update. The channel is closed once ctx is done.
func (c *Cell[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		close(ch)
		return ch
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	if c.has {
		ch <- c.value
	}
	c.mu.Unlock()

	context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	})
	return ch
}

// Subscribers returns the number of live subscriptions.
func (c *Cell[T]) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// offer replaces any unread value in ch with v. Callers must be the only
// sender on ch.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
