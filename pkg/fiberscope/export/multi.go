package export

import (
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
)

// Multi fans a batch out to several sinks. Every sink sees every batch
// even when an earlier one fails; the first error is the one returned.
type Multi struct {
	sinks []Exporter
}

var _ Exporter = (*Multi)(nil)

// NewMulti creates a fan-out over the given non-nil sinks.
func NewMulti(sinks ...Exporter) *Multi {
	filtered := make([]Exporter, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &Multi{sinks: filtered}
}

// Export delivers the batch to every sink.
func (m *Multi) Export(batch []event.Event) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Export(batch); err != nil && first == nil {
			first = err
		}
	}
	return first
}
