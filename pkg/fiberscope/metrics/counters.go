// Package metrics provides the recorder's flat counters and an optional
// OpenTelemetry bridge.
//
// Counters live outside the event pipeline: producers bump them directly
// and they are never buffered or exported through the gate.
package metrics

import (
	"sync"
	"sync/atomic"
)

// Counter is a named integer. Deltas may be negative; there are no
// bounds.
type Counter struct {
	name string
	v    atomic.Int64
}

// Name returns the counter's registry key.
func (c *Counter) Name() string { return c.name }

// Add applies a delta.
func (c *Counter) Add(delta int64) { c.v.Add(delta) }

// Inc adds one.
func (c *Counter) Inc() { c.v.Add(1) }

// Get returns the current value.
func (c *Counter) Get() int64 { return c.v.Load() }

// Reset zeroes the counter.
func (c *Counter) Reset() { c.v.Store(0) }

// Registry holds counters keyed by name.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]*Counter)}
}

// Counter returns the named counter, creating it at zero on first use.
func (r *Registry) Counter(name string) *Counter {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.counters[name]; ok {
		return c
	}
	c = &Counter{name: name}
	r.counters[name] = c
	return c
}

// Add bumps the named counter, creating it if needed.
func (r *Registry) Add(name string, delta int64) {
	r.Counter(name).Add(delta)
}

// Snapshot returns a copy of all current values.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int64, len(r.counters))
	for name, c := range r.counters {
		out[name] = c.Get()
	}
	return out
}

// Reset zeroes every counter without removing it.
func (r *Registry) Reset() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.counters {
		c.Reset()
	}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
