// Package ratelimit paces outbound requests per publisher so a tracking
// run never hammers any single site, however many series it watches there.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"mangatracker/internal/manga"
)

const (
	defaultPerSecond = 2
	defaultMaxJitter = time.Second
)

// Limiter hands out request slots per source. Each source gets its own
// token bucket, so a slow site never stalls requests to the others.
type Limiter struct {
	perSecond rate.Limit
	burst     int
	maxJitter time.Duration

	mu      sync.Mutex
	buckets map[manga.Source]*rate.Limiter
}

// New creates a limiter with the default pacing: two requests per second
// per source, plus up to a second of random jitter per request.
func New() *Limiter {
	return NewWithRate(defaultPerSecond, defaultMaxJitter)
}

// NewWithRate creates a limiter with explicit pacing.
func NewWithRate(perSecond float64, maxJitter time.Duration) *Limiter {
	return &Limiter{
		perSecond: rate.Limit(perSecond),
		burst:     1,
		maxJitter: maxJitter,
		buckets:   make(map[manga.Source]*rate.Limiter),
	}
}

func (l *Limiter) bucket(source manga.Source) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[source]
	if !ok {
		b = rate.NewLimiter(l.perSecond, l.burst)
		l.buckets[source] = b
	}
	return b
}

// Acquire blocks until the source's bucket grants a slot, then sleeps a
// random jitter on top. It only fails when the context is cancelled.
func (l *Limiter) Acquire(ctx context.Context, source manga.Source) error {
	if err := l.bucket(source).Wait(ctx); err != nil {
		return err
	}

	if l.maxJitter > 0 {
		jitter := time.Duration(rand.Int63n(int64(l.maxJitter)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jitter):
		}
	}
	return nil
}
