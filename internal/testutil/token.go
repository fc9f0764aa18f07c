package testutil

import (
	"fmt"
	"sync"
)

// SequenceTokens hands out predictable session tokens: "<prefix>-0001",
// "<prefix>-0002" and so on. The tokens sort in issue order, like UUIDv7.
type SequenceTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceTokens returns a generator. An empty prefix means "session".
func NewSequenceTokens(prefix string) *SequenceTokens {
	if prefix == "" {
		prefix = "session"
	}
	return &SequenceTokens{prefix: prefix}
}

// Generate returns the next token.
func (g *SequenceTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
