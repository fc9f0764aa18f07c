package journal

import (
	"context"
	"log/slog"

	"github.com/roach88/navkit/internal/trace"
)

// Sink writes trace events to a journal session as they are recorded.
// Write failures are logged, never returned, since recording sits inside
// store hooks that cannot fail.
type Sink struct {
	j       *Journal
	session string
	logger  *slog.Logger
}

// NewSink returns a sink appending to session. A nil logger means
// slog.Default().
func NewSink(j *Journal, session string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{j: j, session: session, logger: logger}
}

// Record implements trace.Sink.
func (s *Sink) Record(e trace.Event) {
	if err := s.j.Append(context.Background(), s.session, []trace.Event{e}); err != nil {
		s.logger.Error("journal append failed", "session", s.session, "seq", e.Seq, "error", err)
	}
}

// Session returns the session token events are written to.
func (s *Sink) Session() string {
	return s.session
}
