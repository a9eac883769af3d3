package sources

import (
	"context"
	"net/url"

	"github.com/paperhound/paperhound/internal/resolver"
)

var googleBooksAPIBase = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooks searches the Books API by DOI. Rarely useful for journal
// articles but catches monographs and book chapters. Requires an API key.
type GoogleBooks struct {
	Client *Client
}

func (s *GoogleBooks) Name() string { return "google_books" }

type googleBooksResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			PublishedDate string   `json:"publishedDate"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (s *GoogleBooks) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	if s.Client.cfg.GoogleBooksAPIKey == "" {
		return nil, nil
	}
	u := googleBooksAPIBase + "?q=" + url.QueryEscape("doi:"+doi) + "&key=" + url.QueryEscape(s.Client.cfg.GoogleBooksAPIKey)
	var body googleBooksResponse
	if err := s.Client.getJSON(ctx, u, nil, &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return nil, nil
	}
	info := body.Items[0].VolumeInfo
	meta := &resolver.Metadata{Title: info.Title}
	for _, name := range info.Authors {
		meta.Authors = append(meta.Authors, resolver.Author{Name: name})
	}
	if len(info.PublishedDate) >= 4 {
		meta.Year = atoiSafe(info.PublishedDate[:4])
	}
	if meta.Empty() {
		return nil, nil
	}
	return &resolver.MetadataResult{Meta: meta}, nil
}
