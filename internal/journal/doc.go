// Package journal persists navigation traces in SQLite.
//
// The journal is append-only. A session groups the events of one run and is
// identified by a time-sortable UUIDv7 token, so listing sessions in id
// order lists them oldest first. Events are ordered by their logical seq,
// never by wall time.
//
// Paths are stored as canonical JSON arrays. The journal records what
// happened; it never restores a stack.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package journal
