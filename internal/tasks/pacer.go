package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a mandatory delay after each unit of work that calls an external catalog.
//
// Wait blocks until interval has passed since the last call to Done. The first Wait
// returns immediately. A unit that runs longer than interval, a rate-limit backoff
// included, still gets the full delay before the next one starts.
type Pacer struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewPacer creates a pacer. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{interval: interval, limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next unit may start or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}

// Done marks the end of a unit of work. The next Wait returns interval after this call.
func (p *Pacer) Done() {
	if p == nil || p.interval <= 0 {
		return
	}
	p.limiter = rate.NewLimiter(rate.Every(p.interval), 1)
	p.limiter.Allow()
}
