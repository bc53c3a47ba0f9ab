package trace

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer instance for the recorder. Uses the global OTel tracer
// provider.
var tracer = otel.Tracer("fiberscope")

// SpanManager mirrors fiber lifetimes onto trace spans.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when
// disabled.
type SpanManager interface {
	// StartFiberSpan starts a span covering one fiber's lifetime.
	StartFiberSpan(ctx context.Context, fiberID int64, runID string) (context.Context, oteltrace.Span)

	// EndSpan completes a span, optionally recording a failure.
	EndSpan(span oteltrace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartFiberSpan starts a span covering one fiber's lifetime.
func (m *otelSpanManager) StartFiberSpan(ctx context.Context, fiberID int64, runID string) (context.Context, oteltrace.Span) {
	return tracer.Start(ctx, "fiberscope.fiber."+strconv.FormatInt(fiberID, 10),
		oteltrace.WithAttributes(
			attribute.Int64("fiber.id", fiberID),
			attribute.String("run.id", runID),
		),
		oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
	)
}

// EndSpan completes a span, optionally recording a failure.
func (m *otelSpanManager) EndSpan(span oteltrace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NoopSpanManager is a SpanManager that does nothing. Use when tracing
// is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing. We use the OTel noop package
// for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartFiberSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartFiberSpan(ctx context.Context, _ int64, _ string) (context.Context, oteltrace.Span) {
	return ctx, noopSpan
}

// EndSpan does nothing.
func (NoopSpanManager) EndSpan(_ oteltrace.Span, _ error) {}
