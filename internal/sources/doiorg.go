package sources

import (
	"context"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

var doiOrgBase = "https://doi.org/"

// DOIResolver follows the registrar redirect chain for the DOI and
// inspects where it lands. A final URL that is itself a PDF wins
// outright; an arXiv abstract page is rewritten to its PDF twin; any
// other landing page is handed back as a candidate so the coordinator
// can scrape it for a download link.
type DOIResolver struct {
	Client *Client
}

func (s *DOIResolver) Name() string { return "doi_resolver" }

func (s *DOIResolver) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	_, resp, err := s.Client.getBody(ctx, doiOrgBase+quote(doi))
	if err != nil {
		return nil, err
	}
	final := resp.Request.URL.String()
	ct := strings.ToLower(resp.Header.Get("Content-Type"))

	if strings.HasSuffix(strings.ToLower(resp.Request.URL.Path), ".pdf") || strings.Contains(ct, "pdf") {
		return &resolver.PDFResult{
			URL:      final,
			HostType: "publisher",
			Source:   "DOI Resolver",
		}, nil
	}
	if resp.Request.URL.Host == "arxiv.org" && strings.Contains(resp.Request.URL.Path, "/abs/") {
		pdfURL := strings.Replace(final, "/abs/", "/pdf/", 1) + ".pdf"
		return &resolver.PDFResult{
			URL:      pdfURL,
			HostType: "repository",
			Source:   "DOI Resolver",
		}, nil
	}
	// Landing page. The coordinator's verification step falls back to
	// scraping it for a PDF link before giving up on the candidate.
	return &resolver.PDFResult{
		URL:      final,
		HostType: "publisher",
		Source:   "DOI Resolver",
	}, nil
}
