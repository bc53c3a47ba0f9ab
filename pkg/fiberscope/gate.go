package fiberscope

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/config"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/errors"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/export"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/metrics"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/stream"
)

// Gate routes events to the bound exporter. It starts disabled with the
// discard sink bound; both facts hold until a caller says otherwise.
//
// A Gate delivers in immediate mode only: every accepted Emit invokes
// the exporter with a single-element batch. Drain serves callers running
// an explicit buffered pipeline on top.
type Gate struct {
	mu        sync.RWMutex
	enabled   bool
	exporter  export.Exporter
	cfg       config.Config
	rec       metrics.Recorder
	customRec bool
}

// Option configures gate construction.
type Option func(*Gate)

// WithExporter binds the initial exporter. Nil means the discard sink.
func WithExporter(e export.Exporter) Option {
	return func(g *Gate) {
		if e != nil {
			g.exporter = e
		}
	}
}

// WithConfig sets the initial configuration snapshot. It is validated
// by New.
func WithConfig(cfg config.Config) Option {
	return func(g *Gate) { g.cfg = cfg }
}

// WithRecorder sets the metrics recorder, overriding the one the
// configuration would pick.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Gate) {
		if r != nil {
			g.rec = r
			g.customRec = true
		}
	}
}

// New constructs a disabled gate with the discard sink bound. Returns a
// configuration-kind error if the supplied config is invalid.
func New(opts ...Option) (*Gate, error) {
	g := &Gate{
		exporter: export.Discard{},
		cfg:      config.Default(),
		rec:      metrics.Noop{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if !g.customRec && g.cfg.EnablePerformanceMonitoring {
		g.rec = metrics.NewRecorder()
	}
	return g, nil
}

// Enable turns recording on. Idempotent.
func (g *Gate) Enable() {
	g.mu.Lock()
	g.enabled = true
	g.mu.Unlock()
}

// Disable turns recording off. Idempotent.
func (g *Gate) Disable() {
	g.mu.Lock()
	g.enabled = false
	g.mu.Unlock()
}

// IsEnabled reports the current state.
func (g *Gate) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// SetExporter rebinds the active exporter immediately, in any state.
// Nil restores the discard sink. Rebinding never fails and never drops
// already-accepted events other than one currently in flight.
func (g *Gate) SetExporter(e export.Exporter) {
	if e == nil {
		e = export.Discard{}
	}
	g.mu.Lock()
	g.exporter = e
	g.mu.Unlock()
}

// Config returns the current configuration snapshot.
func (g *Gate) Config() config.Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// UpdateConfig replaces the configuration snapshot after validating it.
// The new snapshot applies to subsequently constructed streams; an
// already-sized stream keeps its capacity (replace the stream instead).
func (g *Gate) UpdateConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	g.cfg = cfg
	if !g.customRec {
		if cfg.EnablePerformanceMonitoring {
			g.rec = metrics.NewRecorder()
		} else {
			g.rec = metrics.Noop{}
		}
	}
	g.mu.Unlock()
	return nil
}

// NewStream constructs a stream sized from the current snapshot.
func (g *Gate) NewStream() (*stream.Stream, error) {
	return stream.New(g.Config().BufferSize)
}

// Emit routes an event. Disabled gate: returns immediately, exporter
// uninvoked, no counters touched. Enabled gate: the event goes to the
// bound exporter as a single-element batch, minus whatever sampling
// drops. Exporter failures surface as exporter-kind errors; the gate has
// no safe default action to take on the caller's behalf.
func (g *Gate) Emit(evt event.Event) error {
	g.mu.RLock()
	enabled := g.enabled
	exporter := g.exporter
	cfg := g.cfg
	rec := g.rec
	g.mu.RUnlock()

	if !enabled {
		return nil
	}

	ctx := context.Background()
	if cfg.EnableSampling && rand.Float64() >= cfg.SamplingRate {
		rec.RecordSampledOut(ctx)
		return nil
	}

	rec.RecordEmit(ctx, evt.Kind.String())
	err := exporter.Export([]event.Event{evt})
	rec.RecordExport(ctx, 1, err)
	if err != nil {
		return wrapExportError(err)
	}
	return nil
}

// Drain flushes the stream and hands the batch to the bound exporter.
// On a disabled gate Drain leaves the stream untouched and returns nil.
// An empty stream is a no-op.
func (g *Gate) Drain(s *stream.Stream) error {
	g.mu.RLock()
	enabled := g.enabled
	exporter := g.exporter
	rec := g.rec
	g.mu.RUnlock()

	if !enabled {
		return nil
	}

	batch := s.Flush()
	if len(batch) == 0 {
		return nil
	}

	err := exporter.Export(batch)
	rec.RecordExport(context.Background(), len(batch), err)
	if err != nil {
		return wrapExportError(err)
	}
	return nil
}

// wrapExportError ensures a sink failure surfaces as an exporter-kind
// error without double-wrapping one the sink already classified.
func wrapExportError(err error) error {
	if errors.IsKind(err, errors.KindExporter) {
		return err
	}
	return errors.Exporter("export batch", err)
}

var (
	defaultGate *Gate
	defaultOnce sync.Once
)

// Default returns the process-wide gate: disabled, discard sink, stock
// configuration. Prefer constructing and injecting a Gate; the default
// exists as a convenience wrapper, not the only access path.
func Default() *Gate {
	defaultOnce.Do(func() {
		defaultGate, _ = New()
	})
	return defaultGate
}
