package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePDFSource returns a canned result after an optional delay. When
// blocking, it waits for cancellation and records that it saw it.
type fakePDFSource struct {
	name      string
	res       *PDFResult
	err       error
	delay     time.Duration
	block     bool
	cancelled atomic.Bool
	calls     atomic.Int32
}

func (f *fakePDFSource) Name() string { return f.name }

func (f *fakePDFSource) FindPDF(ctx context.Context, _ string) (*PDFResult, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		f.cancelled.Store(true)
		return nil, ctx.Err()
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.cancelled.Store(true)
			return nil, ctx.Err()
		}
	}
	return f.res, f.err
}

type fakeMetaSource struct {
	name  string
	res   *MetadataResult
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeMetaSource) Name() string { return f.name }

func (f *fakeMetaSource) FetchMetadata(ctx context.Context, _ string) (*MetadataResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.res, f.err
}

type panicPDFSource struct{ name string }

func (p *panicPDFSource) Name() string { return p.name }

func (p *panicPDFSource) FindPDF(context.Context, string) (*PDFResult, error) {
	panic("adapter bug")
}

// newPDFServer serves a verifiable PDF at /paper.pdf and a plain page
// at /landing that links to it.
func newPDFServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/paper.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	})
	mux.HandleFunc("/other.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	})
	mux.HandleFunc("/landing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/paper.pdf">full text</a>`))
	})
	mux.HandleFunc("/bogus", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`nothing here`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(t *testing.T, reg Registry, cfg Config) *Resolver {
	t.Helper()
	return New(
		reg,
		NewSourceLimiter(0, nil),
		NewGovernor(32),
		NewVerifier(http.DefaultClient, zap.NewNop()),
		cfg,
		zap.NewNop(),
	)
}

func TestResolve_PriorityBeatsCompletionOrder(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	slow := &fakePDFSource{
		name:  "unpaywall",
		delay: 80 * time.Millisecond,
		res:   &PDFResult{URL: srv.URL + "/paper.pdf", HostType: "repository", Source: "Unpaywall"},
	}
	fast := &fakePDFSource{
		name: "zenodo",
		res:  &PDFResult{URL: srv.URL + "/other.pdf", HostType: "repository", Source: "Zenodo"},
	}
	r := newTestResolver(t, Registry{PDF: []PDFSource{slow, fast}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, MsgNoMetadata, out.Message)
	require.Equal(t, srv.URL+"/paper.pdf", out.PDFLink)
	require.Equal(t, "Unpaywall", out.Source)
}

func TestResolve_SkipsFailuresAndEmptyResults(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	failing := &fakePDFSource{name: "core", err: errors.New("upstream 500")}
	empty := &fakePDFSource{name: "figshare"}
	panicking := &panicPDFSource{name: "base"}
	winner := &fakePDFSource{
		name: "zenodo",
		res:  &PDFResult{URL: srv.URL + "/paper.pdf", HostType: "repository", Source: "Zenodo"},
	}
	r := newTestResolver(t, Registry{PDF: []PDFSource{failing, empty, panicking, winner}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, srv.URL+"/paper.pdf", out.PDFLink)
	require.Equal(t, "Zenodo", out.Source)
}

func TestResolve_SlowFailingLeaderDoesNotStall(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	// The top-priority source takes its full budget and then fails;
	// the coordinator must still surface the next source's result.
	stalled := &fakePDFSource{
		name:  "unpaywall",
		delay: 150 * time.Millisecond,
		err:   errors.New("provider timeout"),
	}
	next := &fakePDFSource{
		name: "zenodo",
		res:  &PDFResult{URL: srv.URL + "/paper.pdf", Source: "Zenodo"},
	}
	r := newTestResolver(t, Registry{PDF: []PDFSource{stalled, next}}, Config{})

	start := time.Now()
	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, "Zenodo", out.Source)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestResolve_RejectedCandidateFallsThrough(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	// Highest priority reports a page that neither serves a PDF nor
	// links to one, so the next source must win.
	bogus := &fakePDFSource{
		name: "share",
		res:  &PDFResult{URL: srv.URL + "/bogus", Source: "Share"},
	}
	next := &fakePDFSource{
		name: "zenodo",
		res:  &PDFResult{URL: srv.URL + "/paper.pdf", Source: "Zenodo"},
	}
	r := newTestResolver(t, Registry{PDF: []PDFSource{bogus, next}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, "Zenodo", out.Source)
}

func TestResolve_LandingPageRecoveredByExtraction(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	landing := &fakePDFSource{
		name: "doi_resolver",
		res:  &PDFResult{URL: srv.URL + "/landing", HostType: "publisher", Source: "DOI Resolver"},
	}
	r := newTestResolver(t, Registry{PDF: []PDFSource{landing}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, srv.URL+"/paper.pdf", out.PDFLink)
	require.Equal(t, "DOI Resolver", out.Source)
}

func TestResolve_LosersAreCancelled(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	winner := &fakePDFSource{
		name: "arxiv",
		res:  &PDFResult{URL: srv.URL + "/paper.pdf", Source: "ArXiv"},
	}
	loser := &fakePDFSource{name: "internet_archive", block: true}
	r := newTestResolver(t, Registry{PDF: []PDFSource{winner, loser}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, "ArXiv", out.Source)
	require.True(t, loser.cancelled.Load())
}

func TestResolve_MessagePolicy(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	pdfRes := func() *PDFResult {
		return &PDFResult{URL: srv.URL + "/paper.pdf", Source: "Zenodo"}
	}
	meta := &Metadata{Title: "A Study", Year: 2021}

	t.Run("pdf and metadata", func(t *testing.T) {
		t.Parallel()
		r := newTestResolver(t, Registry{
			PDF:      []PDFSource{&fakePDFSource{name: "zenodo", res: pdfRes()}},
			Metadata: []MetadataSource{&fakeMetaSource{name: "crossref", res: &MetadataResult{Meta: meta}}},
		}, Config{})
		out := r.Resolve(context.Background(), "10.1234/abc")
		require.Equal(t, MsgFound, out.Message)
		require.Equal(t, "A Study", out.Metadata.Title)
	})

	t.Run("pdf without metadata", func(t *testing.T) {
		t.Parallel()
		r := newTestResolver(t, Registry{
			PDF: []PDFSource{&fakePDFSource{name: "zenodo", res: pdfRes()}},
		}, Config{})
		out := r.Resolve(context.Background(), "10.1234/abc")
		require.Equal(t, MsgNoMetadata, out.Message)
	})

	t.Run("metadata without pdf", func(t *testing.T) {
		t.Parallel()
		r := newTestResolver(t, Registry{
			Metadata: []MetadataSource{&fakeMetaSource{name: "crossref", res: &MetadataResult{Meta: meta}}},
		}, Config{})
		out := r.Resolve(context.Background(), "10.1234/abc")
		require.Equal(t, MsgNotFound, out.Message)
		require.Empty(t, out.PDFLink)
		require.Equal(t, "A Study", out.Metadata.Title)
	})

	t.Run("nothing at all", func(t *testing.T) {
		t.Parallel()
		r := newTestResolver(t, Registry{}, Config{})
		out := r.Resolve(context.Background(), "10.1234/abc")
		require.Equal(t, MsgNotFound, out.Message)
	})
}

func TestResolve_MergesMetadataAcrossSources(t *testing.T) {
	t.Parallel()

	a := &fakeMetaSource{name: "crossref", res: &MetadataResult{
		Meta: &Metadata{Title: "A Study", Authors: []Author{{Name: "Ada Lovelace"}}},
	}}
	b := &fakeMetaSource{name: "openalex", delay: 10 * time.Millisecond, res: &MetadataResult{
		Meta: &Metadata{Title: "ignored", Journal: "Nature", Authors: []Author{{Name: "Grace Hopper"}}},
	}}
	r := newTestResolver(t, Registry{Metadata: []MetadataSource{a, b}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, "A Study", out.Metadata.Title)
	require.Equal(t, "Nature", out.Metadata.Journal)
	require.Len(t, out.Metadata.Authors, 2)
}

func TestResolve_SecondWaveOnlyWhenFirstEmpty(t *testing.T) {
	t.Parallel()

	cfg := Config{
		WavePDFFound: 50 * time.Millisecond,
		WaveInitial:  50 * time.Millisecond,
		WaveSecond:   400 * time.Millisecond,
	}

	t.Run("late source caught by second wave", func(t *testing.T) {
		t.Parallel()
		late := &fakeMetaSource{name: "pubmed", delay: 150 * time.Millisecond, res: &MetadataResult{
			Meta: &Metadata{Title: "Late but present"},
		}}
		r := newTestResolver(t, Registry{Metadata: []MetadataSource{late}}, cfg)
		out := r.Resolve(context.Background(), "10.1234/abc")
		require.Equal(t, "Late but present", out.Metadata.Title)
	})

	t.Run("no second wave after a first-wave result", func(t *testing.T) {
		t.Parallel()
		early := &fakeMetaSource{name: "crossref", res: &MetadataResult{
			Meta: &Metadata{Title: "Early"},
		}}
		late := &fakeMetaSource{name: "pubmed", delay: 150 * time.Millisecond, res: &MetadataResult{
			Meta: &Metadata{Journal: "Never merged"},
		}}
		r := newTestResolver(t, Registry{Metadata: []MetadataSource{early, late}}, cfg)
		out := r.Resolve(context.Background(), "10.1234/abc")
		require.Equal(t, "Early", out.Metadata.Title)
		require.Empty(t, out.Metadata.Journal)
	})
}

func TestResolve_CombinedResultSuppliesFallbackPDF(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	combined := &fakeMetaSource{name: "doaj", res: &MetadataResult{
		Meta: &Metadata{Title: "A Study"},
		PDF:  &PDFResult{URL: srv.URL + "/paper.pdf", HostType: "journal", Source: "DOAJ"},
	}}
	r := newTestResolver(t, Registry{Metadata: []MetadataSource{combined}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, MsgFound, out.Message)
	require.Equal(t, srv.URL+"/paper.pdf", out.PDFLink)
	require.Equal(t, "DOAJ", out.Source)
}

func TestResolve_FallbackPDFStillVerified(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	combined := &fakeMetaSource{name: "doaj", res: &MetadataResult{
		Meta: &Metadata{Title: "A Study"},
		PDF:  &PDFResult{URL: srv.URL + "/bogus", Source: "DOAJ"},
	}}
	r := newTestResolver(t, Registry{Metadata: []MetadataSource{combined}}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, MsgNotFound, out.Message)
	require.Empty(t, out.PDFLink)
	require.Equal(t, "A Study", out.Metadata.Title)
}

func TestResolve_WinnerSideChannelMetadataMerged(t *testing.T) {
	t.Parallel()

	srv := newPDFServer(t)
	winner := &fakePDFSource{name: "openaire", res: &PDFResult{
		URL:    srv.URL + "/paper.pdf",
		Source: "OpenAIRE",
		Meta:   &Metadata{Journal: "Side Channel Monthly"},
	}}
	other := &fakeMetaSource{name: "crossref", res: &MetadataResult{
		Meta: &Metadata{Title: "A Study"},
	}}
	r := newTestResolver(t, Registry{
		PDF:      []PDFSource{winner},
		Metadata: []MetadataSource{other},
	}, Config{})

	out := r.Resolve(context.Background(), "10.1234/abc")
	require.Equal(t, MsgFound, out.Message)
	require.Equal(t, "A Study", out.Metadata.Title)
	require.Equal(t, "Side Channel Monthly", out.Metadata.Journal)
}
