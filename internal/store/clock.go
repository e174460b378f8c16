package store

import "sync/atomic"

// Sequencer hands out strictly increasing ordinals.
type Sequencer interface {
	Next() int64
}

// Clock is the default Sequencer: a monotonic logical clock.
// Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock whose next ordinal is start+1.
// Used to resume a run after its last stored ordinal.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next ordinal and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last ordinal handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
