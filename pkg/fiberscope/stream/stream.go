package stream

import (
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
)

// Stream binds one ring to the Event type. It exists as a seam: producers
// and exporters depend on a stream of events rather than a generic ring,
// and capacity can be chosen per deployment profile without touching
// producer code.
type Stream struct {
	ring *Ring[event.Event]
}

// New creates a stream with the given capacity. Capacity must be
// positive; a capacity-kind error is returned otherwise.
func New(capacity int) (*Stream, error) {
	ring, err := NewRing[event.Event](capacity)
	if err != nil {
		return nil, err
	}
	return &Stream{ring: ring}, nil
}

// Push records an event, evicting the oldest when full.
func (s *Stream) Push(evt event.Event) { s.ring.Push(evt) }

// Pop removes and returns the oldest event.
func (s *Stream) Pop() (event.Event, bool) { return s.ring.Pop() }

// Flush returns all buffered events oldest-first and empties the stream.
func (s *Stream) Flush() []event.Event { return s.ring.Flush() }

// PeekAll returns all buffered events oldest-first without removing them.
func (s *Stream) PeekAll() []event.Event { return s.ring.PeekAll() }

// Clear drops all buffered events without returning them.
func (s *Stream) Clear() { s.ring.Clear() }

// Len returns the current occupancy.
func (s *Stream) Len() int { return s.ring.Len() }

// Cap returns the fixed capacity.
func (s *Stream) Cap() int { return s.ring.Cap() }

// Empty reports whether the stream holds no events.
func (s *Stream) Empty() bool { return s.ring.Empty() }

// Full reports whether the next Push will evict.
func (s *Stream) Full() bool { return s.ring.Full() }
