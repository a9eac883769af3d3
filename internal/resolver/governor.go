package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/paperhound/paperhound/internal/metrics"
)

// defaultGovernorLimit bounds simultaneous outbound provider requests
// when no cap is configured.
const defaultGovernorLimit = 10

// Governor is the global counting gate on simultaneous outbound
// requests. Every adapter invocation acquires one slot before its I/O
// and must release it on every exit path, including cancellation.
type Governor struct {
	sem *semaphore.Weighted
}

// NewGovernor builds a Governor capping concurrent outbound requests
// at limit (defaultGovernorLimit if limit is not positive).
func NewGovernor(limit int) *Governor {
	if limit <= 0 {
		limit = defaultGovernorLimit
	}
	return &Governor{sem: semaphore.NewWeighted(int64(limit))}
}

// Acquire claims one outbound slot, blocking until one is free or ctx
// is done.
func (g *Governor) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("governor acquire: %w", err)
	}
	metrics.IncInflight()
	return nil
}

// Release returns a slot claimed by a successful Acquire.
func (g *Governor) Release() {
	metrics.DecInflight()
	g.sem.Release(1)
}
