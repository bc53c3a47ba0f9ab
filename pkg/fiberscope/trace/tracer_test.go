package trace_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/config"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/export"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/ident"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/metrics"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/trace"
)

func newTestTracer(t *testing.T, opts ...fiberscope.Option) (*trace.Tracer, *export.Capture) {
	t.Helper()
	spy := &export.Capture{}
	gate, err := fiberscope.New(append([]fiberscope.Option{fiberscope.WithExporter(spy)}, opts...)...)
	require.NoError(t, err)
	gate.Enable()
	return trace.New(gate, ident.New()), spy
}

func TestFiberLifecycle(t *testing.T) {
	tr, spy := newTestTracer(t)
	ctx := context.Background()

	fiberID, err := tr.FiberCreated(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fiberID)

	require.NoError(t, tr.FiberStarted(ctx, fiberID))
	require.NoError(t, tr.FiberSuspended(ctx, fiberID, "io"))
	require.NoError(t, tr.FiberResumed(ctx, fiberID))
	require.NoError(t, tr.FiberTerminated(ctx, fiberID, nil))

	events := spy.Events()
	require.Len(t, events, 5)
	wantKinds := []event.Kind{
		event.KindFiberCreated,
		event.KindFiberStarted,
		event.KindFiberSuspended,
		event.KindFiberResumed,
		event.KindFiberTerminated,
	}
	for i, k := range wantKinds {
		assert.Equal(t, k, events[i].Kind)
		assert.Equal(t, fiberID, events[i].FiberID)
		assert.Equal(t, tr.RunID(), events[i].Payload["run"], "run tag missing")
	}
	assert.Equal(t, "io", events[2].Payload["reason"])
}

func TestTaskLifecycle(t *testing.T) {
	tr, spy := newTestTracer(t)
	ctx := context.Background()

	fiberID, err := tr.FiberCreated(ctx)
	require.NoError(t, err)

	taskID, err := tr.TaskSubmitted(ctx, fiberID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), taskID)

	secondTask, err := tr.TaskSubmitted(ctx, fiberID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), secondTask, "task ids independent of fiber ids")

	require.NoError(t, tr.TaskStarted(ctx, fiberID, taskID))
	require.NoError(t, tr.TaskCompleted(ctx, fiberID, taskID))

	events := spy.Events()
	started := events[len(events)-2]
	assert.Equal(t, event.KindTaskStarted, started.Kind)
	assert.Equal(t, taskID, started.TaskID)
	assert.True(t, started.HasTask())
}

func TestTaskFailedVerboseReporting(t *testing.T) {
	cfg := config.Default()
	cfg.EnableVerboseErrorReporting = true
	tr, spy := newTestTracer(t, fiberscope.WithConfig(cfg))
	ctx := context.Background()

	require.NoError(t, tr.TaskFailed(ctx, 1, 1, stderrors.New("deadline exceeded")))

	events := spy.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "deadline exceeded", events[0].Payload["error"])
}

func TestTaskFailedTerseByDefault(t *testing.T) {
	tr, spy := newTestTracer(t)
	ctx := context.Background()

	require.NoError(t, tr.TaskFailed(ctx, 1, 1, stderrors.New("deadline exceeded")))

	events := spy.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.KindTaskFailed, events[0].Kind)
	_, present := events[0].Payload["error"]
	assert.False(t, present, "failure detail leaked without verbose reporting")
}

func TestAwaitAndLoopTick(t *testing.T) {
	tr, spy := newTestTracer(t)
	ctx := context.Background()

	require.NoError(t, tr.AwaitEnter(ctx, 3, "db.query"))
	require.NoError(t, tr.AwaitExit(ctx, 3, "db.query"))
	require.NoError(t, tr.LoopTick(ctx, 42))

	events := spy.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "db.query", events[0].Payload["target"])
	assert.Equal(t, event.NoFiber, events[2].FiberID, "loop tick is a system-level event")
	assert.Equal(t, int64(42), events[2].Payload["tick"])
}

func TestDisabledGateKeepsTracerSilent(t *testing.T) {
	spy := &export.Capture{}
	gate, err := fiberscope.New(fiberscope.WithExporter(spy))
	require.NoError(t, err)
	counters := metrics.NewRegistry()
	tr := trace.New(gate, ident.New(), trace.WithCounters(counters))
	ctx := context.Background()

	fiberID, err := tr.FiberCreated(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fiberID, "ids still allocated while disabled")
	assert.Equal(t, 0, spy.Calls())

	// Counters run outside the pipeline and tick regardless.
	assert.Equal(t, int64(1), counters.Counter(event.KindFiberCreated.String()).Get())
}

func TestSpanMirror(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(context.Background())

	spy := &export.Capture{}
	gate, err := fiberscope.New(fiberscope.WithExporter(spy))
	require.NoError(t, err)
	gate.Enable()

	tr := trace.New(gate, ident.New(), trace.WithSpanManager(spanManagerOn(provider)))
	ctx := context.Background()

	fiberID, err := tr.FiberCreated(ctx)
	require.NoError(t, err)
	require.NoError(t, tr.FiberStarted(ctx, fiberID))
	require.NoError(t, tr.FiberTerminated(ctx, fiberID, nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "fiberscope.fiber.")
}

// spanManagerOn adapts a specific provider for the span mirror test,
// bypassing the global tracer provider.
func spanManagerOn(provider *sdktrace.TracerProvider) trace.SpanManager {
	return providerSpanManager{tracer: provider.Tracer("fiberscope-test")}
}

type providerSpanManager struct {
	tracer oteltrace.Tracer
}

func (m providerSpanManager) StartFiberSpan(ctx context.Context, fiberID int64, runID string) (context.Context, oteltrace.Span) {
	return m.tracer.Start(ctx, "fiberscope.fiber.test")
}

func (m providerSpanManager) EndSpan(span oteltrace.Span, err error) {
	if span != nil {
		span.End()
	}
}
