package reddit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_BoundsAcquisitionRate(t *testing.T) {
	interval := 20 * time.Millisecond
	limiter := NewLimiterEvery(interval)

	const n = 5
	start := time.Now()
	for i := 0; i < n; i++ {
		require.NoError(t, limiter.Acquire(context.Background()))
	}
	elapsed := time.Since(start)

	// One token is available immediately; the remaining n-1 must wait a full
	// refill interval each.
	assert.GreaterOrEqual(t, elapsed, time.Duration(n-1)*interval)
}

func TestLimiter_AcquireRespectsContext(t *testing.T) {
	limiter := NewLimiterEvery(time.Hour)
	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Acquire(ctx)
	assert.Error(t, err)
}

func TestNewLimiter_DefaultsToSixtyPerMinute(t *testing.T) {
	// Zero and negative fall back to the default budget; construction only,
	// the rolling-window property itself is covered above with a tight
	// interval.
	assert.NotNil(t, NewLimiter(0))
	assert.NotNil(t, NewLimiter(-5))
	assert.NotNil(t, NewLimiter(60))
}
