// Package clock provides the monotonic millisecond time source used by the
// progress throttle and the rate estimator.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock returns monotonic milliseconds. Values are only meaningful relative
// to each other within one process run.
type Clock interface {
	NowMs() int64
}

// Monotonic reads the runtime's monotonic clock.
type Monotonic struct {
	origin time.Time
}

// NewMonotonic creates a clock whose zero is the moment of creation.
func NewMonotonic() *Monotonic {
	return &Monotonic{origin: time.Now()}
}

// NowMs returns milliseconds elapsed since the clock was created.
func (m *Monotonic) NowMs() int64 {
	// time.Since uses the monotonic reading embedded in origin
	return time.Since(m.origin).Milliseconds()
}

// Manual is a clock that only moves when told to. Used by tests and by
// script replay with simulated time.
type Manual struct {
	ms atomic.Int64
}

// NewManual creates a manual clock starting at start milliseconds.
func NewManual(start int64) *Manual {
	m := &Manual{}
	m.ms.Store(start)
	return m
}

// NowMs returns the current manual time.
func (m *Manual) NowMs() int64 {
	return m.ms.Load()
}

// Advance moves the clock by d milliseconds. Negative values move it
// backwards, which callers treat as a non-monotonic clock.
func (m *Manual) Advance(d int64) {
	m.ms.Add(d)
}

// Set jumps the clock to an absolute value.
func (m *Manual) Set(ms int64) {
	m.ms.Store(ms)
}
