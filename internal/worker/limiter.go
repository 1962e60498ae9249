package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles calls to an external collaborator with a token
// bucket shared across all workers.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerSecond sustained
// with the given burst. A burst below 1 is raised to 1.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}

// Allow reports whether a call may proceed right now without waiting.
func (l *Limiter) Allow() bool {
	return l.bucket.Allow()
}
