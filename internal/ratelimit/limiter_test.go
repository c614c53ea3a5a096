package ratelimit

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

// TestNewRateLimiterStartsFull verifies the bucket starts at full capacity.
func TestNewRateLimiterStartsFull(t *testing.T) {
	rl := NewRateLimiter(1.0, 10.0)
	tokens := rl.GetCurrentTokens()
	if tokens < 9.9 { // Allow small float imprecision
		t.Errorf("expected ~10 tokens, got %.2f", tokens)
	}
}

// TestTryAcquireConsumesTokens verifies token consumption.
func TestTryAcquireConsumesTokens(t *testing.T) {
	rl := NewRateLimiter(1.0, 5.0)

	if !rl.tryAcquire(3) {
		t.Fatal("tryAcquire(3) failed on a full bucket")
	}
	if !rl.tryAcquire(2) {
		t.Fatal("tryAcquire(2) failed with 2 tokens left")
	}
	if rl.tryAcquire(1) {
		t.Error("tryAcquire() should fail when bucket is empty")
	}
}

// TestTokenRefill verifies tokens refill over time.
func TestTokenRefill(t *testing.T) {
	rl := NewRateLimiter(10.0, 10.0) // 10 tokens/sec
	rl.tryAcquire(10)

	time.Sleep(200 * time.Millisecond) // Should refill ~2 tokens

	tokens := rl.GetCurrentTokens()
	if tokens < 1.5 || tokens > 3.0 {
		t.Errorf("expected ~2 tokens after 200ms at 10/sec, got %.2f", tokens)
	}
}

// TestTokenRefillCapsAtMax verifies tokens don't exceed max capacity.
func TestTokenRefillCapsAtMax(t *testing.T) {
	rl := NewRateLimiter(100.0, 5.0)
	time.Sleep(100 * time.Millisecond)

	if tokens := rl.GetCurrentTokens(); tokens > 5.1 {
		t.Errorf("tokens should cap at 5, got %.2f", tokens)
	}
}

// TestWaitNBlocksUntilTokensAvailable verifies WaitN blocks and then succeeds.
func TestWaitNBlocksUntilTokensAvailable(t *testing.T) {
	rl := NewRateLimiter(100.0, 10.0)
	rl.tryAcquire(10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	if err := rl.WaitN(ctx, 5); err != nil {
		t.Fatalf("WaitN() returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected WaitN to block ~50ms, returned after %v", elapsed)
	}
}

// TestWaitNCapsAtBurst verifies a request larger than the bucket does not
// wait forever.
func TestWaitNCapsAtBurst(t *testing.T) {
	rl := NewRateLimiter(1.0, 4.0)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := rl.WaitN(ctx, 1000); err != nil {
		t.Errorf("WaitN() above burst on a full bucket: %v", err)
	}
}

// TestWaitRespectsContextCancellation verifies Wait returns on cancel.
func TestWaitRespectsContextCancellation(t *testing.T) {
	rl := NewRateLimiter(0.1, 1.0) // one token every 10s
	rl.tryAcquire(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

// TestReaderPassesData verifies the limited reader delivers every byte.
func TestReaderPassesData(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 1000)
	rl := NewRateLimiter(1e9, 256)
	r := NewReader(context.Background(), bytes.NewReader(data), rl)

	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if n != 256 {
		t.Errorf("expected a read capped at the burst (256), got %d", n)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if n+len(rest) != len(data) {
		t.Errorf("expected %d bytes, got %d", len(data), n+len(rest))
	}
}

// TestReaderCancelled verifies reads stop with the context.
func TestReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(ctx, bytes.NewReader([]byte("abc")), NewRateLimiter(1, 1))
	if _, err := r.Read(make([]byte, 3)); err != context.Canceled {
		t.Errorf("expected Canceled, got %v", err)
	}
}
