// Package fiberscope is a passive fact-recorder for async runtimes. It
// captures structured lifecycle events (fiber and task state
// transitions, await boundaries, loop ticks) without influencing the
// scheduling or execution it observes.
//
// The Gate is the single point every producer calls through. It is
// disabled by default: emitting through a disabled gate returns
// immediately with zero side effects, which is the recorder's core
// performance contract. When enabled, each event is exported
// synchronously as a single-element batch the instant it is emitted
// (immediate mode). Callers wanting batching run an explicit buffered
// pipeline: push into a Stream from Gate.NewStream and hand batches over
// with Gate.Drain.
//
// Construct and inject a Gate explicitly; Default returns a process-wide
// instance for callers with no wiring point.
//
//	gate, err := fiberscope.New(fiberscope.WithExporter(export.NewLog()))
//	if err != nil {
//		return err
//	}
//	gate.Enable()
//
//	evt, err := event.New(event.KindFiberCreated, ids.NextFiberID())
//	if err != nil {
//		return err
//	}
//	if err := gate.Emit(evt); err != nil {
//		// exporter failure; the recorder takes no default action
//	}
//
// The recorder assumes a single logical thread of control per Gate. The
// gate's own flag and exporter binding are guarded for concurrent hosts,
// and the lock never outlasts the export call itself; streams are
// unsynchronized by design.
package fiberscope
