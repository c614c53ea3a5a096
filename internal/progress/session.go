package progress

import (
	"github.com/rescale/pkgview/internal/clock"
)

// State is the lifecycle position of one progress stream.
type State int

const (
	// Idle - nothing drawn yet for the current item.
	Idle State = iota
	// Active - a bar is on screen and being redrawn in place.
	Active
	// Complete - the bar reached 100% and was terminated with a newline.
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session decides, tick by tick, whether an item-indexed stream redraws.
// It replaces per-call static state: every stream gets its own Session.
type Session struct {
	throttle *Throttle
	state    State
	percent  int
	index    int
	started  bool
}

// NewSession creates an idle session with its own throttle.
func NewSession(c clock.Clock) *Session {
	return &Session{throttle: NewThrottle(c)}
}

// Admit reports whether a tick at percent for item index should be drawn,
// and records it when it is.
//
//   - 0% primes the throttle and always draws.
//   - 100% draws once per item; repeats are dropped.
//   - the first tick and a new item index always draw.
//   - otherwise the tick needs a name, a changed percentage and a full
//     throttle interval since the last accepted tick.
func (s *Session) Admit(percent, index int, named bool) bool {
	switch {
	case percent == 0:
		s.throttle.Prime()
	case percent == 100:
		if s.started && s.percent == 100 && s.index == index {
			return false
		}
	case !s.started || index != s.index:
		// first tick or a new item, draw regardless of timing
	default:
		if !named || percent == s.percent || !s.throttle.Due() {
			return false
		}
	}

	s.started = true
	s.percent = percent
	s.index = index
	if percent == 100 {
		s.state = Complete
	} else {
		s.state = Active
	}
	return true
}

// Activate marks a new item as being drawn, for streams that gate their
// ticks elsewhere.
func (s *Session) Activate(index int) {
	s.started = true
	s.index = index
	s.percent = 0
	s.state = Active
}

// Finish moves the stream to Complete. It returns false when the stream was
// already complete, so that a repeated 100% tick is drawn only once.
func (s *Session) Finish() bool {
	if s.state == Complete {
		return false
	}
	s.started = true
	s.percent = 100
	s.state = Complete
	return true
}

// Reset returns the session to Idle, forgetting the previous item.
func (s *Session) Reset() {
	s.state = Idle
	s.percent = 0
	s.index = 0
	s.started = false
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Percent returns the last admitted percentage.
func (s *Session) Percent() int {
	return s.percent
}

// Throttle exposes the session's throttle to rate estimation.
func (s *Session) Throttle() *Throttle {
	return s.throttle
}
