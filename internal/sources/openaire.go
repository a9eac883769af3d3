package sources

import (
	"context"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// openAIREAPIBase is the OpenAIRE publication search endpoint.
// Declared as a var so tests can substitute an httptest server.
var openAIREAPIBase = "https://api.openaire.eu/search/publications"

// OpenAIRE searches OpenAIRE publications for an open-access PDF and
// carries the record's metadata along as a side channel, so a race
// win from this source also seeds the merged record.
type OpenAIRE struct {
	Client *Client
}

func (s *OpenAIRE) Name() string { return "openaire" }

type openAIREResponse struct {
	Results []struct {
		Result struct {
			Title     string `json:"title"`
			Publisher string `json:"publisher"`
			Year      int    `json:"publicationYear"`
			Creators  []struct {
				Name string `json:"name"`
			} `json:"creators"`
			Fulltexts []struct {
				URL       string `json:"url"`
				MediaType string `json:"mediaType"`
			} `json:"fulltexts"`
		} `json:"result"`
	} `json:"results"`
}

func (s *OpenAIRE) fetch(ctx context.Context, doi string) (*openAIREResponse, error) {
	var payload openAIREResponse
	if err := s.Client.getJSON(ctx, openAIREAPIBase+"?doi="+quote(doi)+"&format=json", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func openAIREMeta(pub *openAIREResponse) *resolver.Metadata {
	if len(pub.Results) == 0 {
		return nil
	}
	result := pub.Results[0].Result
	meta := &resolver.Metadata{
		Title:   result.Title,
		Journal: result.Publisher,
		Year:    result.Year,
	}
	for _, c := range result.Creators {
		if c.Name == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: c.Name})
	}
	if meta.Empty() {
		return nil
	}
	return meta
}

// FindPDF returns the first full text served as application/pdf, with
// the publication's metadata embedded.
func (s *OpenAIRE) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	payload, err := s.fetch(ctx, doi)
	if err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	for _, ft := range payload.Results[0].Result.Fulltexts {
		if ft.URL != "" && strings.EqualFold(ft.MediaType, "application/pdf") {
			return &resolver.PDFResult{
				URL:      ft.URL,
				HostType: "OpenAIRE",
				Source:   "OpenAIRE",
				Meta:     openAIREMeta(payload),
			}, nil
		}
	}
	return nil, nil
}

// OpenAIREMetadata is the metadata-capable view on the same search.
type OpenAIREMetadata struct {
	Client *Client
}

func (s *OpenAIREMetadata) Name() string { return "openaire" }

func (s *OpenAIREMetadata) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	openaire := &OpenAIRE{Client: s.Client}
	payload, err := openaire.fetch(ctx, doi)
	if err != nil {
		return nil, err
	}
	meta := openAIREMeta(payload)
	if meta == nil {
		return nil, nil
	}
	return &resolver.MetadataResult{Meta: meta}, nil
}
