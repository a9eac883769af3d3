package resolver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/paperhound/paperhound/internal/metrics"
)

// metaTask tracks one launched metadata source. Its goroutine sends
// exactly one value on the collector's shared results channel and
// closes done when it has fully terminated.
type metaTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// metaCollector owns the metadata tasks for one request: it launches
// them alongside the PDF race so their I/O overlaps it, then runs the
// merge waves once the race has settled.
type metaCollector struct {
	resolver *Resolver
	results  chan *MetadataResult
	tasks    []*metaTask
	pending  int
}

// launchMetadata starts every registered metadata source as its own
// gated task and returns the collector that owns them.
func (r *Resolver) launchMetadata(ctx context.Context, doi string) *metaCollector {
	c := &metaCollector{
		resolver: r,
		results:  make(chan *MetadataResult, len(r.registry.Metadata)),
	}
	for _, src := range r.registry.Metadata {
		taskCtx, cancel := context.WithCancel(ctx)
		t := &metaTask{cancel: cancel, done: make(chan struct{})}
		c.tasks = append(c.tasks, t)
		c.pending++
		go r.runMetadataSource(taskCtx, src, doi, c.results, t.done)
	}
	return c
}

// runMetadataSource mirrors runPDFSource for the metadata capability.
func (r *Resolver) runMetadataSource(ctx context.Context, src MetadataSource, doi string, results chan<- *MetadataResult, done chan<- struct{}) {
	name := src.Name()
	var out *MetadataResult
	defer close(done)
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("metadata source panicked", zap.String("source", name), zap.Any("panic", rec))
			out = nil
		}
		results <- out
	}()

	if err := r.limiter.Acquire(ctx, name); err != nil {
		return
	}
	if err := r.governor.Acquire(ctx); err != nil {
		return
	}
	defer r.governor.Release()

	res, err := src.FetchMetadata(ctx, doi)
	if err != nil {
		r.logger.Debug("metadata lookup failed", zap.String("source", name), zap.Error(err))
		metrics.ObserveLookup(name, "metadata", "error")
		return
	}
	if res == nil || (res.Meta == nil && res.PDF == nil) {
		metrics.ObserveLookup(name, "metadata", "miss")
		return
	}
	metrics.ObserveLookup(name, "metadata", "hit")
	out = res
}

// collect runs the two deadline-bounded merge waves over whatever
// tasks are still pending, then cancels and drains the remainder. The
// base slot within a wave goes to whichever source completes first;
// metadata is mergeable, so completion order is the right policy here
// even though the PDF race deliberately uses priority order.
func (c *metaCollector) collect(ctx context.Context, pdfFound bool) (Metadata, *PDFResult) {
	budget := c.resolver.cfg.WaveInitial
	if pdfFound {
		budget = c.resolver.cfg.WavePDFFound
	}

	start := time.Now()
	meta, pdf := c.wave(ctx, Metadata{}, nil, budget)
	metrics.ObserveWave("first", time.Since(start))

	if meta.Empty() && c.pending > 0 {
		start = time.Now()
		meta, pdf = c.wave(ctx, meta, pdf, c.resolver.cfg.WaveSecond)
		metrics.ObserveWave("second", time.Since(start))
	}

	c.shutdown()
	return meta, pdf
}

// wave merges completions into the running record until the budget
// expires or no task remains. The first combined result carrying a
// PDF link is retained as the fallback candidate.
func (c *metaCollector) wave(ctx context.Context, meta Metadata, pdf *PDFResult, budget time.Duration) (Metadata, *PDFResult) {
	timer := time.NewTimer(budget)
	defer timer.Stop()

	for c.pending > 0 {
		select {
		case res := <-c.results:
			c.pending--
			if res == nil {
				continue
			}
			if res.Meta != nil {
				meta = Merge(meta, *res.Meta)
			}
			if pdf == nil && res.PDF != nil && res.PDF.URL != "" {
				pdf = res.PDF
			}
		case <-timer.C:
			return meta, pdf
		case <-ctx.Done():
			return meta, pdf
		}
	}
	return meta, pdf
}

// shutdown cancels every task and waits for each goroutine to
// terminate. Sends from cancelled tasks land in the buffered results
// channel and are simply discarded.
func (c *metaCollector) shutdown() {
	for _, t := range c.tasks {
		t.cancel()
	}
	for _, t := range c.tasks {
		<-t.done
	}
	c.pending = 0
}
