package progress

import (
	"fmt"
	"math"

	"github.com/rescale/pkgview/internal/clock"
	"github.com/rescale/pkgview/internal/constants"
)

// ETA is a remaining-time estimate in whole seconds. Unknown is set when no
// positive rate is available; it renders like an ETA that is too large.
type ETA struct {
	Seconds int64
	Unknown bool
}

// UnknownETA is the sentinel for "no estimate".
var UnknownETA = ETA{Unknown: true}

// HMS splits the estimate into hours, minutes and seconds.
func (e ETA) HMS() (h, m, s int64) {
	if e.Unknown {
		return math.MaxInt64 / 3600, 0, 0
	}
	secs := e.Seconds
	if secs < 0 {
		secs = 0
	}
	h = secs / 3600
	secs -= h * 3600
	m = secs / 60
	s = secs - m*60
	return h, m, s
}

// HasHours reports whether the clock form needs the "hh:" field.
func (e ETA) HasHours() bool {
	h, _, _ := e.HMS()
	return h > 0 && h < constants.ETAMaxHours
}

// String renders mm:ss, hh:mm:ss or --:-- for estimates of 100 hours or more.
func (e ETA) String() string {
	h, m, s := e.HMS()
	switch {
	case h == 0:
		return fmt.Sprintf("%02d:%02d", m, s)
	case h < constants.ETAMaxHours:
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	default:
		return "--:--"
	}
}

// Smooth blends an instantaneous rate into the running average, weighting
// history 2:1.
func Smooth(instant, previous float64) float64 {
	return (instant + 2*previous) / 3
}

// EstimateETA divides the remaining bytes by rate.
func EstimateETA(remaining int64, rate float64) ETA {
	if rate <= 0 {
		return UnknownETA
	}
	secs := float64(remaining) / rate
	if secs > math.MaxUint32 {
		return UnknownETA
	}
	return ETA{Seconds: int64(secs)}
}

// RateEstimator keeps the smoothed transfer rate of one in-flight item.
// It must only be sampled at intervals of at least the throttle interval;
// sampling more often degrades the average towards per-sample noise.
type RateEstimator struct {
	clock        clock.Clock
	previousDone int64
	previousRate float64
	sessionStart int64
}

// NewRateEstimator creates an estimator whose session starts now.
func NewRateEstimator(c clock.Clock) *RateEstimator {
	r := &RateEstimator{clock: c}
	r.Reset()
	return r
}

// Reset starts a new session: history cleared, start time set to now.
func (r *RateEstimator) Reset() {
	r.previousDone = 0
	r.previousRate = 0
	r.sessionStart = r.clock.NowMs()
}

// Sample folds one accepted tick into the smoothed rate. elapsedMs is the
// interval since the previous accepted tick as reported by the stream's throttle.
func (r *RateEstimator) Sample(done, total, elapsedMs int64) (float64, ETA) {
	if elapsedMs <= 0 {
		return r.previousRate, EstimateETA(total-done, r.previousRate)
	}

	instant := float64(done-r.previousDone) / (float64(elapsedMs) / 1000.0)
	rate := Smooth(instant, r.previousRate)

	r.previousRate = rate
	r.previousDone = done

	return rate, EstimateETA(total-done, rate)
}

// Finish computes the final average over the whole session. The returned
// ETA carries the elapsed session time rounded to the nearest second, or 0
// when no time elapsed.
func (r *RateEstimator) Finish(done int64) (float64, ETA) {
	elapsed := r.clock.NowMs() - r.sessionStart
	if elapsed <= 0 {
		return 0, ETA{}
	}
	rate := float64(done) / (float64(elapsed) / 1000.0)
	return rate, ETA{Seconds: (elapsed + 500) / 1000}
}

// Rate returns the current smoothed rate in bytes per second.
func (r *RateEstimator) Rate() float64 {
	return r.previousRate
}

// SessionStart returns the clock value at the last Reset.
func (r *RateEstimator) SessionStart() int64 {
	return r.sessionStart
}
