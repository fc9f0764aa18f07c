package journal

import "github.com/google/uuid"

// TokenGenerator produces session tokens.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session tokens.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7. It panics only if the system's
// random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
