// Package retry provides the single retry policy shared by the API client
// and the download scheduler: bounded attempts with exponential backoff and
// a pluggable retryable-error predicate.
package retry

import (
	"context"
	"time"
)

// Policy describes how an operation is retried. The zero value is not
// usable; construct with DefaultPolicy and adjust.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the wait after the first failed attempt; each further
	// failure doubles it, capped at MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries everything.
	Retryable func(error) bool

	// sleep is injectable so tests never wait on real backoff.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy matches the pipeline schedule: 5 attempts, 1s base delay,
// doubling, capped at 60s.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    60 * time.Second,
		Retryable:   retryable,
	}
}

// WithSleep returns a copy of the policy using the given sleep function
func (p Policy) WithSleep(sleep func(ctx context.Context, d time.Duration) error) Policy {
	p.sleep = sleep
	return p
}

// Delay returns the backoff delay before attempt n (1-based; attempt 1 has
// no delay).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	d := p.BaseDelay << uint(attempt-2)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	return d
}

// Do runs op until it succeeds, exhausts MaxAttempts, or hits a
// non-retryable error. It returns the number of attempts made and the last
// error. Backoff waits respect ctx cancellation.
func (p Policy) Do(ctx context.Context, op func() error) (int, error) {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if d := p.Delay(attempt); d > 0 {
			if err := sleep(ctx, d); err != nil {
				return attempt - 1, err
			}
		}

		lastErr = op()
		if lastErr == nil {
			return attempt, nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return attempt, lastErr
		}
	}
	return p.MaxAttempts, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
