// Package export defines the exporter boundary: the contract a sink must
// satisfy to receive event batches, plus the reference sinks.
//
// The core hands a batch to Export and retains no reference afterwards.
// An exporter must tolerate an empty batch as a no-op. The core imposes
// no format, destination, or retry policy; sampling, dropping, and
// batching beyond what the gate already does belong to the sink.
package export

import (
	"sync"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
)

// Exporter receives event batches from the gate.
type Exporter interface {
	// Export delivers a batch of events in emission order. An empty
	// batch is a no-op. Any returned error surfaces to the producer
	// wrapped as an exporter-kind error.
	Export(batch []event.Event) error
}

// Discard accepts any batch and does nothing. It is the default binding,
// so an enabled-but-unconfigured gate costs nothing beyond the enabled
// check.
type Discard struct{}

// Compile-time interface check.
var _ Exporter = Discard{}

// Export does nothing.
func (Discard) Export([]event.Event) error { return nil }

// Capture records every batch it receives. It backs tests and local
// inspection; Export never fails.
type Capture struct {
	mu      sync.Mutex
	batches [][]event.Event
}

var _ Exporter = (*Capture)(nil)

// Export appends a copy of the batch.
func (c *Capture) Export(batch []event.Event) error {
	if len(batch) == 0 {
		return nil
	}
	cp := make([]event.Event, len(batch))
	copy(cp, batch)

	c.mu.Lock()
	c.batches = append(c.batches, cp)
	c.mu.Unlock()
	return nil
}

// Calls returns the number of non-empty batches received.
func (c *Capture) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

// Batches returns the recorded batches in arrival order.
func (c *Capture) Batches() [][]event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]event.Event, len(c.batches))
	copy(out, c.batches)
	return out
}

// Events returns every recorded event in arrival order, flattened.
func (c *Capture) Events() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []event.Event
	for _, b := range c.batches {
		out = append(out, b...)
	}
	return out
}

// Reset drops all recorded batches.
func (c *Capture) Reset() {
	c.mu.Lock()
	c.batches = nil
	c.mu.Unlock()
}
