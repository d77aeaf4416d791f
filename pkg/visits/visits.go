// Package visits counts home page views for the lifetime of the process.
package visits

import "sync/atomic"

// Counter is safe for concurrent use. The zero value starts at zero.
type Counter struct {
	n atomic.Int64
}

func NewCounter() *Counter {
	return &Counter{}
}

// Increment records a visit and returns the count from before it, so the
// first visitor sees 0.
func (c *Counter) Increment() int64 {
	return c.n.Add(1) - 1
}

// Count returns the number of visits so far.
func (c *Counter) Count() int64 {
	return c.n.Load()
}
