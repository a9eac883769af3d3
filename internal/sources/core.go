package sources

import (
	"context"
	"net/http"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// coreAPIBase is the CORE v3 works search endpoint. Declared as a var
// so tests can substitute an httptest server.
var coreAPIBase = "https://api.core.ac.uk/v3/search/works"

// CORE searches the CORE aggregator for full-text PDF links. Requires
// an API key.
type CORE struct {
	Client *Client
}

func (s *CORE) Name() string { return "core" }

type coreResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		DownloadURL  string `json:"downloadUrl"`
		FullTextURLs []struct {
			URL string `json:"url"`
		} `json:"fullTextUrl"`
	} `json:"results"`
}

func (s *CORE) search(ctx context.Context, doi string) (*coreResponse, error) {
	if s.Client.cfg.COREAPIKey == "" {
		return nil, nil
	}
	header := http.Header{"Authorization": []string{"Bearer " + s.Client.cfg.COREAPIKey}}
	var payload coreResponse
	if err := s.Client.getJSON(ctx, coreAPIBase+"?q=doi:"+quote(doi), header, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FindPDF scans CORE full-text URLs for a direct PDF link.
func (s *CORE) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	payload, err := s.search(ctx, doi)
	if err != nil || payload == nil {
		return nil, err
	}
	for _, item := range payload.Results {
		for _, ft := range item.FullTextURLs {
			if strings.HasSuffix(strings.ToLower(ft.URL), ".pdf") {
				return &resolver.PDFResult{URL: ft.URL, HostType: "CORE", Source: "CORE"}, nil
			}
		}
	}
	return nil, nil
}

// COREWorks is the metadata-capable view on the same CORE search; a
// work's downloadUrl rides along as a combined result.
type COREWorks struct {
	Client *Client
}

func (s *COREWorks) Name() string { return "core" }

// FetchMetadata maps the first CORE work onto the common metadata
// shape and carries the download link as a side channel.
func (s *COREWorks) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	core := &CORE{Client: s.Client}
	payload, err := core.search(ctx, doi)
	if err != nil || payload == nil || len(payload.Results) == 0 {
		return nil, err
	}
	item := payload.Results[0]

	meta := &resolver.Metadata{Title: item.Title}
	for _, a := range item.Authors {
		if a.Name == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: a.Name})
	}

	result := &resolver.MetadataResult{}
	if !meta.Empty() {
		result.Meta = meta
	}
	if item.DownloadURL != "" {
		result.PDF = &resolver.PDFResult{URL: item.DownloadURL, HostType: "CORE", Source: "CORE"}
	}
	if result.Meta == nil && result.PDF == nil {
		return nil, nil
	}
	return result, nil
}
