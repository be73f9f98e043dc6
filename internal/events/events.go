// Package events implements the observer-style event stream the
// engines emit instead of calling into UI primitives directly (design
// note in spec §9: "UI-signal coupling in engines"). The core never
// imports a UI package; cmd/rebatch subscribes to a Stream and renders
// it with schollz/progressbar and fatih/color.
package events

// Kind discriminates the event payloads the core emits.
type Kind string

const (
	RowChanged         Kind = "row_changed"
	ExtractionProgress Kind = "extraction_progress"
	ExecutionProgress  Kind = "execution_progress"
	BatchCompleted     Kind = "batch_completed"
	Degraded           Kind = "degraded" // a tier-2 cache or extractor failure that didn't propagate as an error
)

// Event is the single payload type pushed onto a Stream; callers
// switch on Kind and read the field relevant to it.
type Event struct {
	Kind Kind

	// RowChanged
	RowIndex int

	// ExtractionProgress / ExecutionProgress
	Done, Total int

	// BatchCompleted
	BatchID string

	// Degraded / general diagnostics
	Message string
	Err     error
}

// Stream is a buffered channel of Event. Publishers must use TrySend so
// a slow or absent consumer never blocks the engine; a full buffer
// simply drops the least-important progress ticks.
type Stream chan Event

// NewStream creates a Stream with a reasonable buffer for progress
// ticks plus completion events.
func NewStream() Stream {
	return make(Stream, 256)
}

// TrySend pushes e onto s without blocking. If the buffer is full the
// event is dropped rather than stalling the caller — progress ticks are
// best-effort, the final BatchCompleted is sized generously enough in
// practice that it is never the one dropped.
func (s Stream) TrySend(e Event) {
	if s == nil {
		return
	}
	select {
	case s <- e:
	default:
	}
}

// Close closes the stream. Safe to call once, from the publisher side
// only, after the publisher is done emitting.
func (s Stream) Close() {
	if s != nil {
		close(s)
	}
}
