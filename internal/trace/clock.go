package trace

import "sync/atomic"

// Clock hands out strictly increasing sequence numbers.
type Clock interface {
	Next() int64
}

// Counter is the default Clock. It is safe for concurrent use.
type Counter struct {
	seq atomic.Int64
}

// NewCounter returns a counter whose first Next is 1.
func NewCounter() *Counter {
	return &Counter{}
}

// NewCounterAt returns a counter that resumes after start. The journal uses
// it to keep appending to an existing session.
func NewCounterAt(start int64) *Counter {
	c := &Counter{}
	c.seq.Store(start)
	return c
}

// Next increments and returns the sequence number.
func (c *Counter) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Counter) Current() int64 {
	return c.seq.Load()
}
