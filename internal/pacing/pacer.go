// Package pacing centralizes the inter-call delays used to stay under
// external providers' rate limits.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out calls to a rate-limited service. It is a thin wrapper
// over a token-bucket limiter configured for one call per interval, so
// pacing policy lives in one place instead of ad hoc sleeps.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a Pacer that allows one call per interval. A zero or
// negative interval disables pacing entirely.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	// Burst of 1: the first call proceeds immediately, every later call
	// waits out the interval.
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
