package sources

import (
	"context"

	"github.com/paperhound/paperhound/internal/resolver"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works/"

// OpenAlex fetches bibliographic metadata from the OpenAlex works API.
type OpenAlex struct {
	Client *Client
}

func (s *OpenAlex) Name() string { return "openalex" }

type openAlexResponse struct {
	Title       string `json:"title"`
	Authorships []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	HostVenue struct {
		DisplayName string `json:"display_name"`
	} `json:"host_venue"`
	PublicationYear int `json:"publication_year"`
}

// FetchMetadata maps an OpenAlex work record onto the common metadata
// shape. OpenAlex keys works by their full DOI URL.
func (s *OpenAlex) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	var payload openAlexResponse
	if err := s.Client.getJSON(ctx, openAlexAPIBase+"https://doi.org/"+quote(doi), nil, &payload); err != nil {
		return nil, err
	}

	meta := &resolver.Metadata{
		Title:   payload.Title,
		Journal: payload.HostVenue.DisplayName,
		Year:    payload.PublicationYear,
	}
	for _, a := range payload.Authorships {
		if a.Author.DisplayName == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: a.Author.DisplayName})
	}
	if meta.Empty() {
		return nil, nil
	}
	return &resolver.MetadataResult{Meta: meta}, nil
}
