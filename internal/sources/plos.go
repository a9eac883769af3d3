package sources

import (
	"context"
	"net/url"

	"github.com/paperhound/paperhound/internal/resolver"
)

// Base URLs for the PLOS search API and article files. Declared as
// vars so tests can substitute httptest servers.
var (
	plosAPIBase  = "https://api.plos.org/search"
	plosFileBase = "https://journals.plos.org/plosone/article/file"
)

// PLOS queries the PLOS Solr search API. PLOS articles expose their
// printable PDF at a predictable URL, so a metadata hit also yields a
// combined PDF candidate.
type PLOS struct {
	Client *Client
}

func (s *PLOS) Name() string { return "plos" }

type plosResponse struct {
	Response struct {
		Docs []struct {
			Title           string   `json:"title"`
			Author          []string `json:"author"`
			Journal         string   `json:"journal"`
			PublicationDate string   `json:"publication_date"`
		} `json:"docs"`
	} `json:"response"`
}

func (s *PLOS) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	u := plosAPIBase + "?q=doi:" + quote(doi) + "&fl=id,title,author,publication_date,journal&wt=json"
	var payload plosResponse
	if err := s.Client.getJSON(ctx, u, nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Response.Docs) == 0 {
		return nil, nil
	}
	doc := payload.Response.Docs[0]

	meta := &resolver.Metadata{
		Title:   doc.Title,
		Journal: doc.Journal,
	}
	if len(doc.PublicationDate) >= 4 {
		meta.Year = atoiSafe(doc.PublicationDate[:4])
	}
	for _, name := range doc.Author {
		if name == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: name})
	}

	pdfURL := plosFileBase + "?id=" + url.QueryEscape(doi) + "&type=printable"
	result := &resolver.MetadataResult{
		PDF: &resolver.PDFResult{URL: pdfURL, HostType: "PLOS", Source: "PLOS"},
	}
	if !meta.Empty() {
		result.Meta = meta
		result.PDF.Meta = meta
	}
	return result, nil
}
