package sources

import (
	"context"

	"github.com/paperhound/paperhound/internal/resolver"
)

var dryadAPIBase = "https://datadryad.org/api/v2/datasets/"

// Dryad looks up dataset records on the Dryad data repository.
type Dryad struct {
	Client *Client
}

func (s *Dryad) Name() string { return "dryad" }

type dryadResponse struct {
	Title   string `json:"title"`
	Authors []struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"authors"`
	PublicationDate string `json:"publicationDate"`
}

func (s *Dryad) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	u := dryadAPIBase + quote("doi:"+doi)
	var body dryadResponse
	if err := s.Client.getJSON(ctx, u, nil, &body); err != nil {
		return nil, err
	}
	meta := &resolver.Metadata{Title: body.Title}
	for _, a := range body.Authors {
		name := a.FirstName
		if a.LastName != "" {
			if name != "" {
				name += " "
			}
			name += a.LastName
		}
		if name == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: name})
	}
	if len(body.PublicationDate) >= 4 {
		meta.Year = atoiSafe(body.PublicationDate[:4])
	}
	if meta.Empty() {
		return nil, nil
	}
	return &resolver.MetadataResult{Meta: meta}, nil
}
