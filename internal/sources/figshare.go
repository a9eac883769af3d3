package sources

import (
	"context"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// figshareAPIBase is the Figshare article search endpoint. Declared as
// a var so tests can substitute an httptest server.
var figshareAPIBase = "https://api.figshare.com/v2/articles/search"

// Figshare searches Figshare articles for attached PDF files.
type Figshare struct {
	Client *Client
}

func (s *Figshare) Name() string { return "figshare" }

type figshareResponse struct {
	Items []struct {
		Files []struct {
			Name        string `json:"name"`
			DownloadURL string `json:"download_url"`
		} `json:"files"`
	} `json:"items"`
}

func (s *Figshare) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	var payload figshareResponse
	if err := s.Client.getJSON(ctx, figshareAPIBase+"?search_for="+quote(doi), nil, &payload); err != nil {
		return nil, err
	}
	for _, item := range payload.Items {
		for _, f := range item.Files {
			if strings.HasSuffix(strings.ToLower(f.Name), ".pdf") && f.DownloadURL != "" {
				return &resolver.PDFResult{URL: f.DownloadURL, HostType: "Figshare", Source: "Figshare"}, nil
			}
		}
	}
	return nil, nil
}
