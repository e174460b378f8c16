package testutil

import "sync"

// DeterministicClock is a resettable logical clock for tests.
//
// It hands out export ordinals the way the store's own clock does, but
// can be repositioned so a test can assert exactly which ordinals a write
// consumed. Safe for concurrent use.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock and returns the new ordinal.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last ordinal handed out.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Set positions the clock so the next call to Next returns start+1.
func (c *DeterministicClock) Set(start int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = start
}

// Reset is Set(0).
func (c *DeterministicClock) Reset() {
	c.Set(0)
}
