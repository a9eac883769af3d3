package sources

import (
	"context"
	"net/url"

	"github.com/paperhound/paperhound/internal/resolver"
)

// unpaywallAPIBase is the Unpaywall v2 endpoint. Declared as a var so
// tests can substitute an httptest server.
var unpaywallAPIBase = "https://api.unpaywall.org/v2/"

// Unpaywall queries the Unpaywall API for open-access PDF locations.
// The provider's usage policy requires a contact email; the adapter
// skips itself when none is configured.
type Unpaywall struct {
	Client *Client
}

func (s *Unpaywall) Name() string { return "unpaywall" }

type unpaywallLocation struct {
	URLForPDF string `json:"url_for_pdf"`
	HostType  string `json:"host_type"`
}

type unpaywallResponse struct {
	BestOALocation *unpaywallLocation  `json:"best_oa_location"`
	OALocations    []unpaywallLocation `json:"oa_locations"`
}

// FindPDF prefers the best open-access location, then falls back to
// scanning every known location for a PDF link.
func (s *Unpaywall) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	if s.Client.cfg.UnpaywallEmail == "" {
		return nil, nil
	}
	u := unpaywallAPIBase + quote(doi) + "?email=" + url.QueryEscape(s.Client.cfg.UnpaywallEmail)
	var payload unpaywallResponse
	if err := s.Client.getJSON(ctx, u, nil, &payload); err != nil {
		return nil, err
	}

	if loc := payload.BestOALocation; loc != nil && loc.URLForPDF != "" {
		return &resolver.PDFResult{URL: loc.URLForPDF, HostType: loc.HostType, Source: "Unpaywall"}, nil
	}
	for _, loc := range payload.OALocations {
		if loc.URLForPDF != "" {
			return &resolver.PDFResult{URL: loc.URLForPDF, HostType: loc.HostType, Source: "Unpaywall"}, nil
		}
	}
	return nil, nil
}
