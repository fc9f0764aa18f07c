package journal

import (
	"context"
	"fmt"

	"github.com/roach88/navkit/internal/trace"
)

// NewSession registers a session and returns its token.
func (j *Journal) NewSession(ctx context.Context, label string) (string, error) {
	id := j.tokens.Generate()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label) VALUES (?, ?)
	`, id, label)
	if err != nil {
		return "", fmt.Errorf("new session: %w", err)
	}
	return id, nil
}

// Append writes events to session in one transaction. An event whose
// (session, seq) already exists is ignored, so re-appending a trace is a
// no-op.
func (j *Journal) Append(ctx context.Context, session string, events []trace.Event) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (session_id, seq, type, command, result, path)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("append: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if !e.Type.Valid() {
			return fmt.Errorf("append: event %d: invalid type %q", e.Seq, e.Type)
		}
		path, err := marshalPath(e.Path)
		if err != nil {
			return fmt.Errorf("append: event %d: %w", e.Seq, err)
		}
		if _, err := stmt.ExecContext(ctx, session, e.Seq, string(e.Type), e.Command, e.Result, path); err != nil {
			return fmt.Errorf("append: event %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append: commit: %w", err)
	}
	return nil
}

func marshalPath(path []string) (string, error) {
	if path == nil {
		path = []string{}
	}
	b, err := trace.MarshalCanonical(path)
	if err != nil {
		return "", fmt.Errorf("marshal path: %w", err)
	}
	return string(b), nil
}
