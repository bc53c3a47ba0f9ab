package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/errors"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
)

// Log renders each event as one diagnostic line:
//
//	[prefix] fiber.started (fiber:3, task:7) reason=io run=9f2c
//
// The task field is omitted for fiber-only events and payload keys are
// rendered in sorted order. Write failures surface as exporter-kind
// errors carrying the underlying cause, never the raw I/O error type.
type Log struct {
	prefix string
	out    io.Writer
}

var _ Exporter = (*Log)(nil)

// LogOption configures a Log exporter.
type LogOption func(*Log)

// WithPrefix sets the line prefix. Default "fiberscope".
func WithPrefix(prefix string) LogOption {
	return func(l *Log) { l.prefix = prefix }
}

// WithWriter sets the destination. Default is the process's standard
// diagnostic stream.
func WithWriter(w io.Writer) LogOption {
	return func(l *Log) { l.out = w }
}

// NewLog creates a line-per-event log sink.
func NewLog(opts ...LogOption) *Log {
	l := &Log{prefix: "fiberscope", out: os.Stderr}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Export writes one line per event.
func (l *Log) Export(batch []event.Event) error {
	for _, evt := range batch {
		if _, err := io.WriteString(l.out, l.render(evt)); err != nil {
			return errors.Exporter(fmt.Sprintf("write %s event line", evt.Kind), err)
		}
	}
	return nil
}

func (l *Log) render(evt event.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s (fiber:%d", l.prefix, evt.Kind, evt.FiberID)
	if evt.HasTask() {
		fmt.Fprintf(&b, ", task:%d", evt.TaskID)
	}
	b.WriteString(")")

	if len(evt.Payload) > 0 {
		keys := make([]string, 0, len(evt.Payload))
		for k := range evt.Payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, evt.Payload[k])
		}
	}
	b.WriteString("\n")
	return b.String()
}
