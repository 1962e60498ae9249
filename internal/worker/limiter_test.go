package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.bucket.Burst() != 5 {
		t.Errorf("expected burst 5, got %d", limiter.bucket.Burst())
	}

	l2 := NewLimiter(10, -1)
	if l2.bucket.Burst() != 1 {
		t.Errorf("expected burst raised to 1 for negative input, got %d", l2.bucket.Burst())
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_Wait_Canceled(t *testing.T) {
	// Burst exhausted and a rate so slow the next token never arrives
	// within the test.
	limiter := NewLimiter(0.01, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(cctx); err == nil {
		t.Errorf("expected error when context expires before a token is free")
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 and the token is spent.
	if limiter.Allow() {
		t.Errorf("expected allow to fail with exhausted tokens")
	}
}
