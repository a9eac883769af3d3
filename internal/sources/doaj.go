package sources

import (
	"context"

	"github.com/paperhound/paperhound/internal/resolver"
)

// doajAPIBase is the DOAJ article search endpoint. Declared as a var
// so tests can substitute an httptest server.
var doajAPIBase = "https://doaj.org/api/v2/search/articles/"

// DOAJ searches the Directory of Open Access Journals. Articles carry
// both a PDF link and bibliographic metadata, so results are combined.
type DOAJ struct {
	Client *Client
}

func (s *DOAJ) Name() string { return "doaj" }

type doajResponse struct {
	Results []struct {
		Bibjson struct {
			Title string `json:"title"`
			Year  string `json:"year"`
			Link  []struct {
				URL         string `json:"url"`
				ContentType string `json:"content_type"`
			} `json:"link"`
			Author []struct {
				Name string `json:"name"`
			} `json:"author"`
			Journal struct {
				Title string `json:"title"`
			} `json:"journal"`
		} `json:"bibjson"`
	} `json:"results"`
}

func (s *DOAJ) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	var payload doajResponse
	if err := s.Client.getJSON(ctx, doajAPIBase+quote("doi:"+doi), nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	article := payload.Results[0].Bibjson

	var pdfURL string
	for _, link := range article.Link {
		if link.URL != "" && link.ContentType == "application/pdf" {
			pdfURL = link.URL
			break
		}
	}

	meta := &resolver.Metadata{
		Title:   article.Title,
		Journal: article.Journal.Title,
		Year:    atoiSafe(article.Year),
	}
	for _, a := range article.Author {
		if a.Name == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: a.Name})
	}

	result := &resolver.MetadataResult{}
	if !meta.Empty() {
		result.Meta = meta
	}
	if pdfURL != "" {
		result.PDF = &resolver.PDFResult{URL: pdfURL, HostType: "DOAJ", Source: "DOAJ", Meta: result.Meta}
	}
	if result.Meta == nil && result.PDF == nil {
		return nil, nil
	}
	return result, nil
}
