// Package trace is the producer layer: it translates runtime lifecycle
// moments into recorder events.
//
// A Tracer binds a gate and an id generator, allocates correlation ids
// at creation and submission moments, stamps every event with a
// run-scoped tag, and emits through the gate. It holds no reference to
// the fibers or tasks it describes; only scalar facts travel.
//
// When the gate's configuration enables performance monitoring, fiber
// lifetimes are additionally mirrored onto OpenTelemetry spans.
package trace

import (
	"context"
	"sync"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/ident"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/metrics"
)

// Tracer emits lifecycle events for one observed runtime.
type Tracer struct {
	gate     *fiberscope.Gate
	ids      ident.Generator
	runID    string
	spans    SpanManager
	counters *metrics.Registry

	mu     sync.Mutex
	active map[int64]oteltrace.Span
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithSpanManager overrides the span manager the configuration would
// pick.
func WithSpanManager(sm SpanManager) Option {
	return func(t *Tracer) {
		if sm != nil {
			t.spans = sm
		}
	}
}

// WithCounters overrides the counter registry, defaulting to the
// process-wide one.
func WithCounters(r *metrics.Registry) Option {
	return func(t *Tracer) {
		if r != nil {
			t.counters = r
		}
	}
}

// New creates a tracer bound to the given gate and generator. Nil
// arguments fall back to the process-wide defaults.
func New(gate *fiberscope.Gate, ids ident.Generator, opts ...Option) *Tracer {
	if gate == nil {
		gate = fiberscope.Default()
	}
	if ids == nil {
		ids = ident.Default()
	}

	t := &Tracer{
		gate:     gate,
		ids:      ids,
		runID:    uuid.New().String(),
		spans:    NoopSpanManager{},
		counters: metrics.Default(),
		active:   make(map[int64]oteltrace.Span),
	}
	if gate.Config().EnablePerformanceMonitoring {
		t.spans = NewSpanManager()
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RunID returns the run-scoped tag stamped on every emitted event.
func (t *Tracer) RunID() string { return t.runID }

func (t *Tracer) emit(kind event.Kind, fiberID int64, opts ...event.Option) error {
	// Flat counters run independently of the event pipeline: they tick
	// whether or not the gate records anything.
	t.counters.Add(kind.String(), 1)

	opts = append(opts, event.WithFact("run", t.runID))
	evt, err := event.New(kind, fiberID, opts...)
	if err != nil {
		return err
	}
	return t.gate.Emit(evt)
}

// FiberCreated allocates a fiber id and records its creation.
func (t *Tracer) FiberCreated(ctx context.Context) (int64, error) {
	fiberID := t.ids.NextFiberID()
	return fiberID, t.emit(event.KindFiberCreated, fiberID)
}

// FiberStarted records a fiber entering execution and opens its span.
func (t *Tracer) FiberStarted(ctx context.Context, fiberID int64) error {
	_, span := t.spans.StartFiberSpan(ctx, fiberID, t.runID)
	t.mu.Lock()
	t.active[fiberID] = span
	t.mu.Unlock()

	return t.emit(event.KindFiberStarted, fiberID)
}

// FiberSuspended records a fiber parking on the given reason.
func (t *Tracer) FiberSuspended(ctx context.Context, fiberID int64, reason string) error {
	return t.emit(event.KindFiberSuspended, fiberID, event.WithFact("reason", reason))
}

// FiberResumed records a fiber rescheduled after suspension.
func (t *Tracer) FiberResumed(ctx context.Context, fiberID int64) error {
	return t.emit(event.KindFiberResumed, fiberID)
}

// FiberTerminated records the end of a fiber's life and closes its
// span. A non-nil cause marks the span failed; the event itself is the
// same fact either way.
func (t *Tracer) FiberTerminated(ctx context.Context, fiberID int64, cause error) error {
	t.mu.Lock()
	span, ok := t.active[fiberID]
	if ok {
		delete(t.active, fiberID)
	}
	t.mu.Unlock()
	if ok {
		t.spans.EndSpan(span, cause)
	}

	return t.emit(event.KindFiberTerminated, fiberID)
}

// TaskSubmitted allocates a task id and records its submission on the
// given fiber.
func (t *Tracer) TaskSubmitted(ctx context.Context, fiberID int64) (int64, error) {
	taskID := t.ids.NextTaskID()
	return taskID, t.emit(event.KindTaskSubmitted, fiberID, event.WithTask(taskID))
}

// TaskStarted records a task entering execution.
func (t *Tracer) TaskStarted(ctx context.Context, fiberID, taskID int64) error {
	return t.emit(event.KindTaskStarted, fiberID, event.WithTask(taskID))
}

// TaskCompleted records a task finishing successfully.
func (t *Tracer) TaskCompleted(ctx context.Context, fiberID, taskID int64) error {
	return t.emit(event.KindTaskCompleted, fiberID, event.WithTask(taskID))
}

// TaskFailed records a task failure. The cause's message travels in the
// payload only when verbose error reporting is configured; the failure
// fact itself always does.
func (t *Tracer) TaskFailed(ctx context.Context, fiberID, taskID int64, cause error) error {
	opts := []event.Option{event.WithTask(taskID)}
	if cause != nil && t.gate.Config().EnableVerboseErrorReporting {
		opts = append(opts, event.WithFact("error", cause.Error()))
	}
	return t.emit(event.KindTaskFailed, fiberID, opts...)
}

// AwaitEnter records a fiber reaching an await boundary.
func (t *Tracer) AwaitEnter(ctx context.Context, fiberID int64, target string) error {
	return t.emit(event.KindAwaitEnter, fiberID, event.WithFact("target", target))
}

// AwaitExit records a fiber crossing back out of an await boundary.
func (t *Tracer) AwaitExit(ctx context.Context, fiberID int64, target string) error {
	return t.emit(event.KindAwaitExit, fiberID, event.WithFact("target", target))
}

// LoopTick records one scheduler loop iteration as a system-level
// event.
func (t *Tracer) LoopTick(ctx context.Context, tick int64) error {
	return t.emit(event.KindLoopTick, event.NoFiber, event.WithFact("tick", tick))
}
