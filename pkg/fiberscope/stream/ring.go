// Package stream provides the bounded event store: a fixed-capacity ring
// with overwrite-oldest eviction, and the Event-typed Stream façade that
// producers and exporters program against.
//
// The ring gives a hard memory ceiling: sustained production can never
// grow the host process, at the cost of losing the oldest facts under
// pressure. Eviction is a property of bounded memory, not a failure, so
// Push never errors and never signals the overwrite.
//
// No method locks. The recorder's model is a single logical thread of
// control per gate; a concurrent host serializes access externally.
package stream

import (
	"fmt"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/errors"
)

// Ring is a fixed-capacity circular buffer. When full, Push evicts the
// oldest entry to make room. Occupancy is always within [0, Cap].
type Ring[T any] struct {
	data  []T
	head  int // index of the oldest entry
	count int
}

// NewRing allocates a ring with the given capacity. Capacity must be
// positive; a capacity-kind error is returned otherwise.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, errors.Capacity(fmt.Sprintf("ring capacity must be positive, got %d", capacity))
	}
	return &Ring[T]{data: make([]T, capacity)}, nil
}

// Push inserts v, evicting the oldest entry first if the ring is full.
// O(1), never fails.
func (r *Ring[T]) Push(v T) {
	if r.count == len(r.data) {
		r.data[r.head] = v
		r.head = (r.head + 1) % len(r.data)
		return
	}
	r.data[(r.head+r.count)%len(r.data)] = v
	r.count++
}

// Pop removes and returns the oldest entry. The second return is false
// when the ring is empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	v := r.data[r.head]
	r.data[r.head] = zero
	r.head = (r.head + 1) % len(r.data)
	r.count--
	return v, true
}

// Flush returns all entries oldest-first and empties the ring.
func (r *Ring[T]) Flush() []T {
	out := r.PeekAll()
	r.Clear()
	return out
}

// PeekAll returns all entries oldest-first without removing them.
func (r *Ring[T]) PeekAll() []T {
	if r.count == 0 {
		return nil
	}
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(r.head+i)%len(r.data)]
	}
	return out
}

// Clear drops all entries without returning them. Slots are zeroed so
// evicted values become collectable.
func (r *Ring[T]) Clear() {
	var zero T
	for i := 0; i < r.count; i++ {
		r.data[(r.head+i)%len(r.data)] = zero
	}
	r.head = 0
	r.count = 0
}

// Len returns the current occupancy.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// Empty reports whether the ring holds no entries.
func (r *Ring[T]) Empty() bool { return r.count == 0 }

// Full reports whether the next Push will evict.
func (r *Ring[T]) Full() bool { return r.count == len(r.data) }
