package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/navkit/internal/trace"
)

// Session summarises one journal session.
type Session struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Events  int    `json:"events"`
	LastSeq int64  `json:"last_seq"`
}

// Sessions lists every session oldest first. UUIDv7 tokens sort by creation
// time, so id order is creation order.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.label, COUNT(e.seq), COALESCE(MAX(e.seq), 0)
		FROM sessions s
		LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.id, s.label
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Label, &s.Events, &s.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadSession returns the events of session ordered by seq. An unknown
// session yields an empty slice.
func (j *Journal) ReadSession(ctx context.Context, session string) ([]trace.Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, type, command, result, path
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var (
			e    trace.Event
			typ  string
			path string
		)
		if err := rows.Scan(&e.Seq, &typ, &e.Command, &e.Result, &path); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = trace.EventType(typ)
		if err := json.Unmarshal([]byte(path), &e.Path); err != nil {
			return nil, fmt.Errorf("event %d: unmarshal path: %w", e.Seq, err)
		}
		if e.Path == nil {
			e.Path = []string{}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// LastSeq returns the highest seq recorded for session, or 0.
func (j *Journal) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq int64
	err := j.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM events WHERE session_id = ?
	`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
