package engine

import "sync/atomic"

// RevisionClock issues the monotonically increasing revision numbers that
// identify edit batches.
//
// Revision 0 is the initial network. Each accepted batch takes the next
// number; rejected batches take none.
//
// Thread-safety: RevisionClock is safe for concurrent use.
type RevisionClock struct {
	rev atomic.Int64
}

// NewRevisionClock creates a clock at revision 0.
func NewRevisionClock() *RevisionClock {
	return &RevisionClock{}
}

// Next advances the clock and returns the new revision.
func (c *RevisionClock) Next() int64 {
	return c.rev.Add(1)
}

// Current returns the current revision without advancing.
func (c *RevisionClock) Current() int64 {
	return c.rev.Load()
}
