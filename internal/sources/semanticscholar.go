package sources

import (
	"context"

	"github.com/paperhound/paperhound/internal/resolver"
)

// semanticScholarAPIBase is the Semantic Scholar graph endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticScholarAPIBase = "https://api.semanticscholar.org/graph/v1/paper/DOI:"

// SemanticScholar fetches bibliographic metadata from the Semantic
// Scholar graph API.
type SemanticScholar struct {
	Client *Client
}

func (s *SemanticScholar) Name() string { return "semantic_scholar" }

type semanticScholarResponse struct {
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Journal struct {
		Name string `json:"name"`
	} `json:"journal"`
}

// FetchMetadata maps a Semantic Scholar paper record onto the common
// metadata shape.
func (s *SemanticScholar) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	u := semanticScholarAPIBase + quote(doi) + "?fields=title,authors,journal,year"
	var payload semanticScholarResponse
	if err := s.Client.getJSON(ctx, u, nil, &payload); err != nil {
		return nil, err
	}

	meta := &resolver.Metadata{
		Title:   payload.Title,
		Journal: payload.Journal.Name,
		Year:    payload.Year,
	}
	for _, a := range payload.Authors {
		if a.Name == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: a.Name})
	}
	if meta.Empty() {
		return nil, nil
	}
	return &resolver.MetadataResult{Meta: meta}, nil
}
