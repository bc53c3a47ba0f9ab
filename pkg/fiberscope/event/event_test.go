package event_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/errors"
	"github.com/randalmurphal/fiberscope/pkg/fiberscope/event"
)

func TestNew(t *testing.T) {
	evt, err := event.New(event.KindFiberCreated, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Kind != event.KindFiberCreated {
		t.Errorf("kind = %q", evt.Kind)
	}
	if evt.FiberID != 7 {
		t.Errorf("fiber id = %d", evt.FiberID)
	}
	if evt.HasTask() {
		t.Error("task id should be absent")
	}
	if evt.Time.IsZero() {
		t.Error("timestamp not assigned")
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := event.New(event.Kind("fiber.reborn"), 1)
	if !errors.IsKind(err, errors.KindInvalidEvent) {
		t.Fatalf("expected invalid-event error, got %v", err)
	}
}

func TestNewNegativeFiberID(t *testing.T) {
	_, err := event.New(event.KindFiberCreated, -1)
	if !errors.IsKind(err, errors.KindInvalidEvent) {
		t.Fatalf("expected invalid-event error, got %v", err)
	}
	if !strings.Contains(err.Error(), "fiber_id") {
		t.Errorf("error %q does not reference the fiber_id field", err)
	}
}

func TestSystemEvent(t *testing.T) {
	evt, err := event.New(event.KindLoopTick, event.NoFiber, event.WithFact("tick", int64(42)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.FiberID != 0 {
		t.Errorf("system event fiber id = %d", evt.FiberID)
	}
	if evt.Payload["tick"] != int64(42) {
		t.Errorf("payload = %v", evt.Payload)
	}
}

func TestWithTask(t *testing.T) {
	evt, err := event.New(event.KindTaskStarted, 3, event.WithTask(11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !evt.HasTask() || evt.TaskID != 11 {
		t.Errorf("task id = %d", evt.TaskID)
	}

	if _, err := event.New(event.KindTaskStarted, 3, event.WithTask(-5)); !errors.IsKind(err, errors.KindInvalidEvent) {
		t.Errorf("expected invalid-event error for negative task id, got %v", err)
	}
}

func TestNonScalarPayloadRejected(t *testing.T) {
	_, err := event.New(event.KindFiberCreated, 1, event.WithFact("closure", func() {}))
	if !errors.IsKind(err, errors.KindInvalidEvent) {
		t.Fatalf("expected invalid-event error, got %v", err)
	}

	_, err = event.New(event.KindFiberCreated, 1, event.WithFacts(map[string]any{
		"ok":  "fine",
		"bad": []string{"not", "scalar"},
	}))
	if !errors.IsKind(err, errors.KindInvalidEvent) {
		t.Fatalf("expected invalid-event error, got %v", err)
	}
}

func TestWithFactsCopies(t *testing.T) {
	facts := map[string]any{"reason": "io"}
	evt, err := event.New(event.KindFiberSuspended, 2, event.WithFacts(facts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	facts["reason"] = "mutated"
	if evt.Payload["reason"] != "io" {
		t.Error("payload aliases the caller's map")
	}
}

func TestKindSet(t *testing.T) {
	for _, k := range event.Kinds() {
		if !k.Valid() {
			t.Errorf("published kind %q reported invalid", k)
		}
	}
	if event.Kind("task.retried").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestJSONProjection(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	evt, err := event.New(event.KindTaskFailed, 5,
		event.WithTask(8),
		event.WithTime(at),
		event.WithFact("error", "boom"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["kind"] != "task.failed" {
		t.Errorf("kind = %v", decoded["kind"])
	}
	if decoded["fiber_id"] != float64(5) || decoded["task_id"] != float64(8) {
		t.Errorf("ids = %v / %v", decoded["fiber_id"], decoded["task_id"])
	}
}
