package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgallez/jobhawk/internal/model"
)

// SourceRateLimiter enforces a minimum delay between requests to the same
// upstream source.
type SourceRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: source name
	minDelay time.Duration
}

// NewSourceRateLimiter creates a rate limiter that enforces minDelay between
// consecutive fetches of the same source.
func NewSourceRateLimiter(minDelay time.Duration) *SourceRateLimiter {
	return &SourceRateLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the given
// source. Returns an error if the context is cancelled while waiting.
func (r *SourceRateLimiter) Wait(ctx context.Context, source string) error {
	r.mu.Lock()
	last, ok := r.lastCall[source]
	now := time.Now()

	if !ok {
		// First request for this source — no wait needed.
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-time.After(remaining):
	}

	r.mu.Lock()
	r.lastCall[source] = time.Now()
	r.mu.Unlock()

	return nil
}

// Adapter is a decorator that waits for the shared limiter before delegating
// to the wrapped SourceAdapter.
type Adapter struct {
	inner   model.SourceAdapter
	limiter *SourceRateLimiter
}

// Wrap adds source-level rate limiting around an adapter. All adapters hitting
// the same backend should share one limiter instance.
func Wrap(inner model.SourceAdapter, limiter *SourceRateLimiter) *Adapter {
	return &Adapter{inner: inner, limiter: limiter}
}

func (a *Adapter) Name() string { return a.inner.Name() }

// FetchJobs waits for the rate limiter to allow a request, then delegates.
func (a *Adapter) FetchJobs(ctx context.Context) ([]model.JobOffer, error) {
	if err := a.limiter.Wait(ctx, a.inner.Name()); err != nil {
		return nil, err
	}
	return a.inner.FetchJobs(ctx)
}
