package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/paperhound/paperhound/internal/metrics"
)

// SourceLimiter enforces a minimum interval between request starts per
// source name. Spacing is advisory: it governs start times only, so
// requests to the same source may still overlap in flight. The state
// lives for the whole process and is shared by every request.
type SourceLimiter struct {
	mu              sync.Mutex
	limiters        map[string]*rate.Limiter
	intervals       map[string]time.Duration
	defaultInterval time.Duration
}

// NewSourceLimiter builds a limiter with per-source intervals.
// Sources not present in intervals get defaultInterval; a
// non-positive interval disables spacing for that source.
func NewSourceLimiter(defaultInterval time.Duration, intervals map[string]time.Duration) *SourceLimiter {
	return &SourceLimiter{
		limiters:        make(map[string]*rate.Limiter),
		intervals:       intervals,
		defaultInterval: defaultInterval,
	}
}

// Acquire blocks until at least the configured interval has elapsed
// since the last permitted start for source, then records the new
// start. The underlying rate.Limiter serializes concurrent callers to
// the same source, so spacing holds even under parallel acquisition.
func (l *SourceLimiter) Acquire(ctx context.Context, source string) error {
	lim := l.limiterFor(source)

	start := time.Now()
	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if delay := time.Since(start); delay > time.Millisecond {
		metrics.ObserveRateLimitDelay(source, delay)
	}
	return nil
}

func (l *SourceLimiter) limiterFor(source string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[source]
	if !ok {
		interval := l.defaultInterval
		if iv, configured := l.intervals[source]; configured {
			interval = iv
		}
		limit := rate.Inf
		if interval > 0 {
			limit = rate.Every(interval)
		}
		lim = rate.NewLimiter(limit, 1)
		l.limiters[source] = lim
	}
	return lim
}
