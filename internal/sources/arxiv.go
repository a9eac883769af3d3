package sources

import (
	"context"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// arXivDOIPrefix gates the adapter: only DataCite DOIs minted for
// arXiv papers resolve to a predictable PDF URL.
const arXivDOIPrefix = "10.48550/arXiv."

// arXivPDFBase is the arXiv PDF host. Declared as a var so tests can
// substitute an httptest server.
var arXivPDFBase = "https://arxiv.org/pdf/"

// ArXiv derives the direct PDF URL for arXiv-prefixed DOIs and probes
// that it exists.
type ArXiv struct {
	Client *Client
}

func (s *ArXiv) Name() string { return "arxiv" }

func (s *ArXiv) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	if !strings.HasPrefix(doi, arXivDOIPrefix) {
		return nil, nil
	}
	arxivID := doi[len(arXivDOIPrefix):]
	pdfURL := arXivPDFBase + arxivID + ".pdf"
	if !s.Client.headOK(ctx, pdfURL) {
		return nil, nil
	}
	return &resolver.PDFResult{URL: pdfURL, HostType: "ArXiv", Source: "ArXiv"}, nil
}
