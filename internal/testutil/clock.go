package testutil

import "sync"

// DeterministicClock is a resettable logical clock for recorder tests.
//
// It satisfies history.SeqSource. Every value handed out is remembered so a
// test can assert exactly which sequence numbers a run consumed.
type DeterministicClock struct {
	mu     sync.Mutex
	start  int64
	seq    int64
	issued []int64
}

// NewDeterministicClock creates a clock whose first Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(0)
}

// NewDeterministicClockAt creates a clock whose first Next() returns start+1.
func NewDeterministicClockAt(start int64) *DeterministicClock {
	return &DeterministicClock{start: start, seq: start}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.issued = append(c.issued, c.seq)
	return c.seq
}

// Current returns the last value handed out (or the start position).
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Issued returns a copy of every value handed out since the last Reset.
func (c *DeterministicClock) Issued() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.issued))
	copy(out, c.issued)
	return out
}

// Reset rewinds the clock to its start position and forgets issued values.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.start
	c.issued = nil
}
