package sources

import (
	"context"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// rxivDOIPrefix is shared by bioRxiv and medRxiv preprints.
const rxivDOIPrefix = "10.1101/"

// Content hosts for the two Cold Spring Harbor preprint servers.
// Declared as vars so tests can substitute httptest servers.
var (
	bioRxivContentBase = "https://www.biorxiv.org/content/"
	medRxivContentBase = "https://www.medrxiv.org/content/"
)

// BioRxiv derives the full-text PDF URL for bioRxiv-prefixed DOIs and
// probes that it exists.
type BioRxiv struct {
	Client *Client
}

func (s *BioRxiv) Name() string { return "biorxiv" }

func (s *BioRxiv) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	return rxivLookup(ctx, s.Client, doi, bioRxivContentBase, "bioRxiv")
}

// MedRxiv is the medRxiv variant of the same lookup; the servers share
// a DOI prefix, so both probe their own host.
type MedRxiv struct {
	Client *Client
}

func (s *MedRxiv) Name() string { return "medrxiv" }

func (s *MedRxiv) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	return rxivLookup(ctx, s.Client, doi, medRxivContentBase, "medRxiv")
}

func rxivLookup(ctx context.Context, c *Client, doi, contentBase, hostType string) (*resolver.PDFResult, error) {
	if !strings.HasPrefix(doi, rxivDOIPrefix) {
		return nil, nil
	}
	pdfURL := contentBase + doi + ".full.pdf"
	if !c.headOK(ctx, pdfURL) {
		return nil, nil
	}
	return &resolver.PDFResult{URL: pdfURL, HostType: hostType, Source: hostType}, nil
}
