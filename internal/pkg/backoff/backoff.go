// Package backoff provides the retry policy shared by outbound HTTP
// adapters: a capped exponential delay between attempts and a sleep that
// respects context cancellation.
package backoff

import (
	"context"
	"time"
)

// Policy describes how an adapter retries a failed call.
type Policy struct {
	// MaxAttempts is the total number of tries, the first call included.
	MaxAttempts int

	// BaseDelay is the delay after the first failed attempt.
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth of the delay.
	MaxDelay time.Duration
}

// DefaultPolicy is a sane retry behavior for adapters that were not given
// an explicit one.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Delay returns the capped exponential delay before the given retry.
// Attempts are counted from 1; the delay doubles with every further attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Sleep waits for the given delay. Returns false when the context was
// cancelled before the delay elapsed, in which case the caller stops
// retrying.
func Sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
