// Package ratelimit paces byte streams with a token bucket, one token per
// byte. The demo transaction uses it to simulate transfers at a given speed.
package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter.
// It allows bursts up to maxTokens, then refills at refillRate tokens/second.
type RateLimiter struct {
	tokens     float64   // Current number of tokens available
	maxTokens  float64   // Maximum bucket capacity
	refillRate float64   // Tokens added per second
	lastRefill time.Time // Last time tokens were refilled
	mu         sync.Mutex
}

// NewRateLimiter creates a new rate limiter.
//
// Parameters:
//   - tokensPerSecond: rate at which tokens are added (bytes per second)
//   - burstSize: maximum tokens that can accumulate; also the largest
//     request WaitN accepts in one call
func NewRateLimiter(tokensPerSecond float64, burstSize float64) *RateLimiter {
	return &RateLimiter{
		tokens:     burstSize, // Start with full bucket
		maxTokens:  burstSize,
		refillRate: tokensPerSecond,
		lastRefill: time.Now(),
	}
}

// Burst returns the bucket capacity.
func (rl *RateLimiter) Burst() int {
	return int(rl.maxTokens)
}

// Wait blocks until one token is available or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.WaitN(ctx, 1)
}

// WaitN blocks until n tokens are available or ctx is cancelled. n is
// capped at the bucket capacity.
func (rl *RateLimiter) WaitN(ctx context.Context, n int) error {
	need := float64(n)
	if need > rl.maxTokens {
		need = rl.maxTokens
	}

	for {
		// Check if context is already cancelled
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if rl.tryAcquire(need) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.timeUntil(need)):
			// Loop again to try acquiring
		}
	}
}

// refill adds the tokens accumulated since the last refill. Caller holds mu.
func (rl *RateLimiter) refill(now time.Time) {
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate

	// Cap at max tokens (don't accumulate infinitely)
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now
}

// tryAcquire attempts to take n tokens without blocking.
func (rl *RateLimiter) tryAcquire(n float64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill(time.Now())
	if rl.tokens >= n {
		rl.tokens -= n
		return true
	}
	return false
}

// timeUntil calculates how long to wait until n tokens are available.
func (rl *RateLimiter) timeUntil(n float64) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	needed := n - rl.tokens
	if needed <= 0 {
		return 0
	}
	return time.Duration(needed / rl.refillRate * float64(time.Second))
}

// GetCurrentTokens returns the current number of tokens (for testing/debugging).
func (rl *RateLimiter) GetCurrentTokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill(time.Now())
	return rl.tokens
}

// Reader limits reads from an underlying reader to the limiter's rate.
type Reader struct {
	ctx     context.Context
	reader  io.Reader
	limiter *RateLimiter
}

// NewReader wraps reader. Reads return ctx's error once it is cancelled.
func NewReader(ctx context.Context, reader io.Reader, limiter *RateLimiter) *Reader {
	return &Reader{ctx: ctx, reader: reader, limiter: limiter}
}

// Read reads at most one burst and waits for the tokens it consumed.
func (r *Reader) Read(p []byte) (int, error) {
	if burst := r.limiter.Burst(); burst > 0 && len(p) > burst {
		p = p[:burst]
	}
	if err := r.limiter.WaitN(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.reader.Read(p)
}
