// Package errors defines the error taxonomy for the fiberscope recorder.
//
// Every error raised by the recorder carries one of four kinds:
//   - Configuration: an invalid configuration field, raised at construction
//   - InvalidEvent: a malformed event, raised before the event reaches
//     any buffer or exporter
//   - Exporter: a failure inside an Exporter.Export call, wrapping the
//     original cause
//   - Capacity: a non-positive buffer capacity at construction
//
// Propagation is always synchronous to the immediate caller. The one
// designed silence is emitting through a disabled gate, which is a no-op
// by contract rather than a suppressed failure.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies recorder errors for handling decisions.
type Kind int

const (
	// KindConfiguration indicates an invalid configuration field.
	// Raised synchronously at config construction, never deferred.
	KindConfiguration Kind = iota

	// KindInvalidEvent indicates event construction with an out-of-range
	// correlation id, unknown event kind, or non-scalar payload value.
	KindInvalidEvent

	// KindExporter indicates a failure during export. The original
	// failure travels as the wrapped cause, never as the surfaced type.
	KindExporter

	// KindCapacity indicates a non-positive buffer capacity.
	KindCapacity
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvalidEvent:
		return "invalid_event"
	case KindExporter:
		return "exporter"
	case KindCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Error is the single error type raised by the recorder.
type Error struct {
	// Kind indicates which part of the contract was violated.
	Kind Kind

	// Field names the offending field or parameter, when one exists.
	Field string

	// Message describes the violation.
	Message string

	// Err is the wrapped cause, if any. For exporter errors this is the
	// sink's original failure.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Configuration creates a configuration-kind error naming the invalid field.
func Configuration(field, message string) *Error {
	return &Error{Kind: KindConfiguration, Field: field, Message: message}
}

// InvalidEvent creates an invalid-event error naming the malformed field.
func InvalidEvent(field, message string) *Error {
	return &Error{Kind: KindInvalidEvent, Field: field, Message: message}
}

// Exporter wraps a sink failure as an exporter-kind error. The cause's
// identity is preserved through Unwrap; its concrete type is never the
// surfaced error.
func Exporter(message string, cause error) *Error {
	return &Error{Kind: KindExporter, Message: message, Err: cause}
}

// Capacity creates a capacity-kind error for an invalid buffer size.
func Capacity(message string) *Error {
	return &Error{Kind: KindCapacity, Message: message}
}

// KindOf reports the Kind of err if it is (or wraps) a recorder Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a recorder Error of the given kind.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
