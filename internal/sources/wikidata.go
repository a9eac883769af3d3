package sources

import (
	"context"
	"net/http"
	"net/url"

	"github.com/paperhound/paperhound/internal/resolver"
)

var wikidataSPARQLBase = "https://query.wikidata.org/sparql"

// Wikidata queries the public SPARQL endpoint for an item with the
// given DOI (property P356) and uses its English label as the title.
type Wikidata struct {
	Client *Client
}

func (s *Wikidata) Name() string { return "wikidata" }

type wikidataResponse struct {
	Results struct {
		Bindings []struct {
			ItemLabel struct {
				Value string `json:"value"`
			} `json:"itemLabel"`
		} `json:"bindings"`
	} `json:"results"`
}

func (s *Wikidata) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	query := `SELECT ?item ?itemLabel WHERE { ?item wdt:P356 "` + doi + `". SERVICE wikibase:label { bd:serviceParam wikibase:language "en". } }`
	u := wikidataSPARQLBase + "?format=json&query=" + url.QueryEscape(query)

	header := http.Header{}
	header.Set("Accept", "application/sparql-results+json")
	var body wikidataResponse
	if err := s.Client.getJSON(ctx, u, header, &body); err != nil {
		return nil, err
	}
	if len(body.Results.Bindings) == 0 {
		return nil, nil
	}
	title := body.Results.Bindings[0].ItemLabel.Value
	if title == "" {
		return nil, nil
	}
	return &resolver.MetadataResult{Meta: &resolver.Metadata{Title: title}}, nil
}
