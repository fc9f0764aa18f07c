package trace

import (
	"sync"

	"github.com/roach88/navkit/internal/nav"
)

// Sink receives events as they are recorded.
type Sink interface {
	Record(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Record(e Event) { f(e) }

// Recorder collects events from store hooks.
//
// It implements store.Middleware and its OnChange method has the shape of a
// store change handler. A Recorder never vetoes and never rewrites.
type Recorder[R comparable] struct {
	mu     sync.Mutex
	clock  Clock
	sinks  []Sink
	events []Event
}

// RecorderOption configures a Recorder.
type RecorderOption[R comparable] func(*Recorder[R])

// WithClock sets the sequence source. Defaults to a fresh Counter.
func WithClock[R comparable](c Clock) RecorderOption[R] {
	return func(r *Recorder[R]) {
		r.clock = c
	}
}

// WithSink forwards every event to s after it is stored.
func WithSink[R comparable](s Sink) RecorderOption[R] {
	return func(r *Recorder[R]) {
		r.sinks = append(r.sinks, s)
	}
}

// NewRecorder returns an empty recorder.
func NewRecorder[R comparable](opts ...RecorderOption[R]) *Recorder[R] {
	r := &Recorder[R]{}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = NewCounter()
	}
	return r
}

func (r *Recorder[R]) WillExecute(cmd nav.Command[R], before nav.Stack[R]) (nav.Command[R], bool) {
	r.record(Event{
		Type:    EventWill,
		Command: nav.Describe(cmd),
		Path:    PathStrings(before),
	})
	return cmd, true
}

func (r *Recorder[R]) DidExecute(cmd nav.Command[R], result nav.Result, after nav.Stack[R]) {
	r.record(Event{
		Type:    EventDid,
		Command: nav.Describe(cmd),
		Result:  result.String(),
		Path:    PathStrings(after),
	})
}

// OnChange records a change event carrying the new path.
func (r *Recorder[R]) OnChange(_, after nav.Stack[R]) {
	r.record(Event{
		Type: EventChange,
		Path: PathStrings(after),
	})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder[R]) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder[R]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops recorded events. The clock keeps counting.
func (r *Recorder[R]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder[R]) record(e Event) {
	r.mu.Lock()
	e.Seq = r.clock.Next()
	r.events = append(r.events, e)
	sinks := r.sinks
	r.mu.Unlock()

	for _, s := range sinks {
		s.Record(e)
	}
}
