package reddit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the process-wide token gate for outbound requests. Listing
// fetches, audio probes and media downloads all count against the same
// budget. Acquire blocks until a token is available; it never fails on its
// own, only when the context ends.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter creates a limiter allowing perMinute acquisitions per rolling
// minute (default 60 when perMinute is zero or negative).
func NewLimiter(perMinute int) *Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return NewLimiterEvery(time.Minute / time.Duration(perMinute))
}

// NewLimiterEvery creates a limiter refilling one token per interval.
// Exposed so tests can compress time.
func NewLimiterEvery(interval time.Duration) *Limiter {
	return &Limiter{bucket: rate.NewLimiter(rate.Every(interval), 1)}
}

// Acquire blocks the caller until a token is available
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
