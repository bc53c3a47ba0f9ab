package export

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/config"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
)

// Slog emits events through a slog.Logger. The event kind becomes the
// log message, correlation ids and payload facts become attributes.
// Useful when the host already routes slog output; the Log sink is the
// plain-line alternative.
type Slog struct {
	logger *slog.Logger
	level  slog.Level
}

var _ Exporter = (*Slog)(nil)

// NewSlog creates a slog-backed sink logging at the given level.
// A nil logger falls back to slog.Default.
func NewSlog(logger *slog.Logger, level config.LogLevel) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{logger: logger, level: level.Slog()}
}

// Export logs one record per event. It never fails; slog handlers own
// their delivery errors.
func (s *Slog) Export(batch []event.Event) error {
	ctx := context.Background()
	for _, evt := range batch {
		attrs := make([]slog.Attr, 0, len(evt.Payload)+2)
		attrs = append(attrs, slog.Int64("fiber_id", evt.FiberID))
		if evt.HasTask() {
			attrs = append(attrs, slog.Int64("task_id", evt.TaskID))
		}
		for k, v := range evt.Payload {
			attrs = append(attrs, slog.Any(k, v))
		}
		s.logger.LogAttrs(ctx, s.level, evt.Kind.String(), attrs...)
	}
	return nil
}
