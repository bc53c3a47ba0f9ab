package event

// Kind identifies what fact an event records. The set of kinds is a
// compatibility contract: once published a kind is never removed or
// repurposed, only added to.
type Kind string

// Fiber lifecycle kinds.
const (
	KindFiberCreated    Kind = "fiber.created"
	KindFiberStarted    Kind = "fiber.started"
	KindFiberSuspended  Kind = "fiber.suspended"
	KindFiberResumed    Kind = "fiber.resumed"
	KindFiberTerminated Kind = "fiber.terminated"
)

// Task lifecycle kinds.
const (
	KindTaskSubmitted Kind = "task.submitted"
	KindTaskStarted   Kind = "task.started"
	KindTaskCompleted Kind = "task.completed"
	KindTaskFailed    Kind = "task.failed"
)

// Await boundary and scheduler kinds.
const (
	KindAwaitEnter Kind = "await.enter"
	KindAwaitExit  Kind = "await.exit"
	KindLoopTick   Kind = "loop.tick"
)

var knownKinds = map[Kind]struct{}{
	KindFiberCreated:    {},
	KindFiberStarted:    {},
	KindFiberSuspended:  {},
	KindFiberResumed:    {},
	KindFiberTerminated: {},
	KindTaskSubmitted:   {},
	KindTaskStarted:     {},
	KindTaskCompleted:   {},
	KindTaskFailed:      {},
	KindAwaitEnter:      {},
	KindAwaitExit:       {},
	KindLoopTick:        {},
}

// Valid reports whether k is a member of the published kind set.
func (k Kind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// String returns the kind's wire name.
func (k Kind) String() string {
	return string(k)
}

// Kinds returns the published kind set. The returned slice is a copy.
func Kinds() []Kind {
	out := make([]Kind, 0, len(knownKinds))
	for k := range knownKinds {
		out = append(out, k)
	}
	return out
}
