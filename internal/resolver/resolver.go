package resolver

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Messages surfaced by the result assembler.
const (
	MsgFound      = "Paper found!"
	MsgNoMetadata = "No metadata found"
	MsgNotFound   = "Couldn't find paper."
)

// Config holds resolver tuning knobs.
type Config struct {
	// WavePDFFound bounds the first metadata wave when a PDF has
	// already been found.
	WavePDFFound time.Duration
	// WaveInitial bounds the first metadata wave when no PDF was
	// found.
	WaveInitial time.Duration
	// WaveSecond bounds the second metadata wave.
	WaveSecond time.Duration
}

func (c Config) withDefaults() Config {
	if c.WavePDFFound <= 0 {
		c.WavePDFFound = 3 * time.Second
	}
	if c.WaveInitial <= 0 {
		c.WaveInitial = 6 * time.Second
	}
	if c.WaveSecond <= 0 {
		c.WaveSecond = 2 * time.Second
	}
	return c
}

// Resolver coordinates the PDF race and the metadata merge for one
// DOI at a time. It owns the lifecycle of every task it launches; the
// rate limiter, governor, and the verifier's HTTP client are shared
// process-wide.
type Resolver struct {
	registry Registry
	limiter  *SourceLimiter
	governor *Governor
	verifier *Verifier
	cfg      Config
	logger   *zap.Logger
}

// New builds a Resolver.
func New(
	registry Registry,
	limiter *SourceLimiter,
	governor *Governor,
	verifier *Verifier,
	cfg Config,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		registry: registry,
		limiter:  limiter,
		governor: governor,
		verifier: verifier,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

// Resolve races the PDF sources, merges metadata from whatever
// completes within the wave deadlines, and assembles the response.
// It never fails: a request for which no provider has data yields a
// soft "not found" outcome.
func (r *Resolver) Resolve(ctx context.Context, doi string) Outcome {
	collector := r.launchMetadata(ctx, doi)
	pdf := r.racePDF(ctx, doi)
	meta, fallback := collector.collect(ctx, pdf != nil)

	// A race winner that can answer both lookups contributes its
	// metadata through the same merge law as any other source.
	if pdf != nil && pdf.Meta != nil {
		meta = Merge(meta, *pdf.Meta)
	}

	// When the race found nothing, a combined metadata result may
	// still supply the link, gated by the same verification step.
	if pdf == nil && fallback != nil {
		if confirmed, ok := r.confirmPDF(ctx, fallback.URL); ok {
			fallback.URL = confirmed
			pdf = fallback
			if pdf.Meta != nil {
				meta = Merge(meta, *pdf.Meta)
			}
		}
	}

	return assemble(pdf, meta)
}

// assemble builds the response payload under the single message
// policy: a found PDF with metadata reads "Paper found!", a found PDF
// without metadata reads "No metadata found", and no PDF always reads
// "Couldn't find paper.".
func assemble(pdf *PDFResult, meta Metadata) Outcome {
	out := Outcome{Metadata: meta}
	if pdf == nil {
		out.Message = MsgNotFound
		return out
	}
	out.PDFLink = pdf.URL
	out.HostType = pdf.HostType
	out.Source = pdf.Source
	if meta.Empty() {
		out.Message = MsgNoMetadata
	} else {
		out.Message = MsgFound
	}
	return out
}
