package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/paperhound/paperhound/internal/metrics"
)

// pdfTask tracks one launched PDF source for a single request. The
// goroutine behind it sends exactly one value on result, even when it
// is cancelled or the source fails.
type pdfTask struct {
	source PDFSource
	result chan *PDFResult
	cancel context.CancelFunc
}

// racePDF launches every registered PDF source concurrently and
// selects a winner by registry priority order, not completion order:
// a lower-priority source finishing early never pre-empts a
// higher-priority source that is still pending. Because every source
// runs in the background from the start, waiting on a slow
// high-priority source costs at most that source's own transport
// timeout. On return no launched task is still running.
func (r *Resolver) racePDF(ctx context.Context, doi string) *PDFResult {
	tasks := make([]*pdfTask, 0, len(r.registry.PDF))
	for _, src := range r.registry.PDF {
		taskCtx, cancel := context.WithCancel(ctx)
		t := &pdfTask{
			source: src,
			result: make(chan *PDFResult, 1),
			cancel: cancel,
		}
		tasks = append(tasks, t)
		go r.runPDFSource(taskCtx, t, doi)
	}

	for i, t := range tasks {
		res := <-t.result
		if res == nil || res.URL == "" {
			continue
		}
		confirmed, ok := r.confirmPDF(ctx, res.URL)
		if !ok {
			r.logger.Debug("pdf candidate failed verification",
				zap.String("source", t.source.Name()),
				zap.String("url", res.URL),
			)
			continue
		}
		res.URL = confirmed
		drainPDFTasks(tasks[i+1:])
		metrics.ObserveRaceWin(t.source.Name())
		r.logger.Info("pdf race won",
			zap.String("source", t.source.Name()),
			zap.String("url", res.URL),
		)
		return res
	}
	return nil
}

// runPDFSource gates one source invocation behind the rate limiter
// and the governor, absorbs every failure, and always delivers a
// single result. Panics inside an adapter count as adapter failures
// and never escape the task.
func (r *Resolver) runPDFSource(ctx context.Context, t *pdfTask, doi string) {
	name := t.source.Name()
	var out *PDFResult
	defer t.cancel()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("pdf source panicked", zap.String("source", name), zap.Any("panic", rec))
			out = nil
		}
		t.result <- out
	}()

	if err := r.limiter.Acquire(ctx, name); err != nil {
		return
	}
	if err := r.governor.Acquire(ctx); err != nil {
		return
	}
	defer r.governor.Release()

	res, err := t.source.FindPDF(ctx, doi)
	if err != nil {
		r.logger.Debug("pdf lookup failed", zap.String("source", name), zap.Error(err))
		metrics.ObserveLookup(name, "pdf", "error")
		return
	}
	if res == nil || res.URL == "" {
		metrics.ObserveLookup(name, "pdf", "miss")
		return
	}
	metrics.ObserveLookup(name, "pdf", "hit")
	out = res
}

// drainPDFTasks cancels the still-pending tasks and waits for each
// one's final send, so the coordinator never returns with work left
// running.
func drainPDFTasks(tasks []*pdfTask) {
	for _, t := range tasks {
		t.cancel()
	}
	for _, t := range tasks {
		<-t.result
	}
}

// confirmPDF applies the verification gate to a candidate URL. When
// the direct probe rejects it, the landing-page extractor gets one
// chance to recover a verified link from the same location.
func (r *Resolver) confirmPDF(ctx context.Context, rawURL string) (string, bool) {
	if r.verifier.Verify(ctx, rawURL) {
		return rawURL, true
	}
	if extracted, ok := r.verifier.ExtractFromPage(ctx, rawURL); ok {
		return extracted, true
	}
	return "", false
}
