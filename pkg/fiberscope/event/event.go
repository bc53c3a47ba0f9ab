// Package event defines the immutable fact record captured by the
// fiberscope recorder.
//
// Events are plain values: created once by a producer at the moment a
// fact is known, never mutated afterwards. The payload carries only
// scalar facts (strings, numbers, booleans) so that a resident event can
// never extend the lifetime of a fiber, task, or closure it describes.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/errors"
)

// NoFiber is the reserved fiber id for system-level events.
const NoFiber int64 = 0

// Event is an immutable fact about the observed runtime.
// Construct with New; a zero Event is not valid.
type Event struct {
	Kind    Kind           `json:"kind"`
	Time    time.Time      `json:"time"`
	FiberID int64          `json:"fiber_id"`
	TaskID  int64          `json:"task_id,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Option configures event construction.
type Option func(*Event) error

// WithTask attaches a task correlation id. Task ids are positive;
// zero means absent.
func WithTask(taskID int64) Option {
	return func(e *Event) error {
		if taskID <= 0 {
			return errors.InvalidEvent("task_id", fmt.Sprintf("must be positive, got %d", taskID))
		}
		e.TaskID = taskID
		return nil
	}
}

// WithTime overrides the construction timestamp.
func WithTime(t time.Time) Option {
	return func(e *Event) error {
		e.Time = t
		return nil
	}
}

// WithFact adds one scalar fact to the payload.
func WithFact(key string, value any) Option {
	return func(e *Event) error {
		if !scalarFact(value) {
			return errors.InvalidEvent("payload."+key, fmt.Sprintf("must be a scalar fact, got %T", value))
		}
		if e.Payload == nil {
			e.Payload = make(map[string]any, 4)
		}
		e.Payload[key] = value
		return nil
	}
}

// WithFacts adds a map of scalar facts to the payload. The map is
// copied; the caller keeps ownership of its argument.
func WithFacts(facts map[string]any) Option {
	return func(e *Event) error {
		for k, v := range facts {
			if !scalarFact(v) {
				return errors.InvalidEvent("payload."+k, fmt.Sprintf("must be a scalar fact, got %T", v))
			}
			if e.Payload == nil {
				e.Payload = make(map[string]any, len(facts))
			}
			e.Payload[k] = v
		}
		return nil
	}
}

// New constructs an event for the given kind and fiber correlation id.
// FiberID NoFiber (0) marks a system-level event. Returns an
// invalid-event error for an unknown kind, a negative fiber id, or a
// non-scalar payload value.
func New(kind Kind, fiberID int64, opts ...Option) (Event, error) {
	if !kind.Valid() {
		return Event{}, errors.InvalidEvent("kind", fmt.Sprintf("unknown event kind %q", kind))
	}
	if fiberID < 0 {
		return Event{}, errors.InvalidEvent("fiber_id", fmt.Sprintf("must be non-negative, got %d", fiberID))
	}

	e := Event{
		Kind:    kind,
		Time:    time.Now(),
		FiberID: fiberID,
	}
	for _, opt := range opts {
		if err := opt(&e); err != nil {
			return Event{}, err
		}
	}
	return e, nil
}

// HasTask reports whether a task correlation id is attached.
func (e Event) HasTask() bool {
	return e.TaskID != 0
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return json.Marshal(alias(e))
}

// scalarFact reports whether v is an allowed payload value. The payload
// must never hold live references to runtime objects, so only primitive
// facts pass.
func scalarFact(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
