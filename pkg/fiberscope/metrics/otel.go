package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder publishes recorder activity to a metrics backend.
// Use NewRecorder() for OTel metrics or Noop{} when disabled.
type Recorder interface {
	// RecordEmit records one accepted emission of the given kind.
	RecordEmit(ctx context.Context, kind string)

	// RecordSampledOut records one emission dropped by sampling.
	RecordSampledOut(ctx context.Context)

	// RecordExport records one exporter call with its batch size and
	// error status.
	RecordExport(ctx context.Context, batchSize int, err error)
}

// Noop is a Recorder that does nothing. Use when performance
// monitoring is disabled to avoid overhead.
type Noop struct{}

// Compile-time interface check.
var _ Recorder = Noop{}

// RecordEmit does nothing.
func (Noop) RecordEmit(context.Context, string) {}

// RecordSampledOut does nothing.
func (Noop) RecordSampledOut(context.Context) {}

// RecordExport does nothing.
func (Noop) RecordExport(context.Context, int, error) {}

// otelRecorder implements Recorder using OpenTelemetry.
type otelRecorder struct {
	emitted    metric.Int64Counter
	sampledOut metric.Int64Counter
	exports    metric.Int64Counter
	exportErrs metric.Int64Counter
	batchSize  metric.Int64Histogram
}

var (
	defaultRecorder     *otelRecorder
	defaultRecorderOnce sync.Once
	defaultRecorderErr  error
)

func getDefaultRecorder() (*otelRecorder, error) {
	defaultRecorderOnce.Do(func() {
		defaultRecorder, defaultRecorderErr = newOtelRecorder()
	})
	return defaultRecorder, defaultRecorderErr
}

func newOtelRecorder() (*otelRecorder, error) {
	meter := otel.Meter("fiberscope")

	emitted, err := meter.Int64Counter("fiberscope.events.emitted",
		metric.WithDescription("Number of events accepted by the gate"),
	)
	if err != nil {
		return nil, err
	}

	sampledOut, err := meter.Int64Counter("fiberscope.events.sampled_out",
		metric.WithDescription("Number of events dropped by sampling"),
	)
	if err != nil {
		return nil, err
	}

	exports, err := meter.Int64Counter("fiberscope.export.calls",
		metric.WithDescription("Number of exporter invocations"),
	)
	if err != nil {
		return nil, err
	}

	exportErrs, err := meter.Int64Counter("fiberscope.export.errors",
		metric.WithDescription("Number of failed exporter invocations"),
	)
	if err != nil {
		return nil, err
	}

	batchSize, err := meter.Int64Histogram("fiberscope.export.batch_size",
		metric.WithDescription("Events per exporter invocation"),
	)
	if err != nil {
		return nil, err
	}

	return &otelRecorder{
		emitted:    emitted,
		sampledOut: sampledOut,
		exports:    exports,
		exportErrs: exportErrs,
		batchSize:  batchSize,
	}, nil
}

// NewRecorder returns a Recorder that uses OpenTelemetry. If metrics
// initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewRecorder() Recorder {
	r, err := getDefaultRecorder()
	if err != nil {
		return Noop{}
	}
	return r
}

// RecordEmit records one accepted emission.
func (r *otelRecorder) RecordEmit(ctx context.Context, kind string) {
	r.emitted.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordSampledOut records one sampled-out emission.
func (r *otelRecorder) RecordSampledOut(ctx context.Context) {
	r.sampledOut.Add(ctx, 1)
}

// RecordExport records one exporter call.
func (r *otelRecorder) RecordExport(ctx context.Context, batchSize int, err error) {
	r.exports.Add(ctx, 1)
	r.batchSize.Record(ctx, int64(batchSize))
	if err != nil {
		r.exportErrs.Add(ctx, 1)
	}
}
