package progress

import (
	"github.com/rescale/pkgview/internal/clock"
	"github.com/rescale/pkgview/internal/constants"
)

// Throttle limits how often one progress stream redraws. Each stream owns
// its own Throttle; the transaction bar and the download bar never share one.
type Throttle struct {
	clock    clock.Clock
	interval int64
	last     int64
}

// NewThrottle creates a throttle with the default 200ms interval.
func NewThrottle(c clock.Clock) *Throttle {
	return NewThrottleInterval(c, constants.UpdateIntervalMs)
}

// NewThrottleInterval creates a throttle with a custom interval in milliseconds.
func NewThrottleInterval(c clock.Clock, intervalMs int64) *Throttle {
	return &Throttle{
		clock:    c,
		interval: intervalMs,
		last:     c.NowMs(),
	}
}

// Elapsed reports the milliseconds since the last accepted tick.
//
// On a first call the stream is primed: the current time is recorded and 0
// is returned. Otherwise the stored time only moves forward when the tick is
// accepted, that is when the clock went backwards or at least one interval
// passed; a short interval leaves it untouched so that short gaps add up.
func (t *Throttle) Elapsed(firstCall bool) int64 {
	now := t.clock.NowMs()
	if firstCall {
		t.last = now
		return 0
	}

	elapsed := now - t.last
	if elapsed < 0 || elapsed >= t.interval {
		t.last = now
	}
	return elapsed
}

// Prime is Elapsed(true).
func (t *Throttle) Prime() {
	t.Elapsed(true)
}

// Due is a convenience over Elapsed for callers that only need the decision.
// A negative elapsed time (clock went backwards) counts as due.
func (t *Throttle) Due() bool {
	elapsed := t.Elapsed(false)
	return elapsed < 0 || elapsed >= t.interval
}

// Interval returns the configured interval in milliseconds.
func (t *Throttle) Interval() int64 {
	return t.interval
}
