package sources

import (
	"context"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// zenodoAPIBase is the Zenodo records endpoint. Declared as a var so
// tests can substitute an httptest server.
var zenodoAPIBase = "https://zenodo.org/api/records/"

// Zenodo searches Zenodo records for deposited PDF files.
type Zenodo struct {
	Client *Client
}

func (s *Zenodo) Name() string { return "zenodo" }

type zenodoResponse struct {
	Hits struct {
		Hits []struct {
			Files []struct {
				Links struct {
					Self string `json:"self"`
				} `json:"links"`
			} `json:"files"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *Zenodo) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	var payload zenodoResponse
	if err := s.Client.getJSON(ctx, zenodoAPIBase+"?q=doi:"+quote(doi), nil, &payload); err != nil {
		return nil, err
	}
	for _, hit := range payload.Hits.Hits {
		for _, f := range hit.Files {
			if strings.HasSuffix(strings.ToLower(f.Links.Self), ".pdf") {
				return &resolver.PDFResult{URL: f.Links.Self, HostType: "Zenodo", Source: "Zenodo"}, nil
			}
		}
	}
	return nil, nil
}
