package sources

import (
	"context"
	"encoding/json"

	"github.com/paperhound/paperhound/internal/resolver"
)

// Base URLs for the NCBI E-utilities. Declared as vars so tests can
// substitute httptest servers.
var (
	pubmedSearchAPIBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedSummaryAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
)

// PubMed resolves the DOI to a PMID via esearch and fetches the
// record summary via esummary.
type PubMed struct {
	Client *Client
}

func (s *PubMed) Name() string { return "pubmed" }

type pubmedSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedSummaryDoc struct {
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
	Source  string `json:"source"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

type pubmedSummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

func (s *PubMed) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	searchURL := pubmedSearchAPIBase + "?db=pubmed&term=" + quote(doi) + "[DOI]&retmode=json"
	var search pubmedSearchResponse
	if err := s.Client.getJSON(ctx, searchURL, nil, &search); err != nil {
		return nil, err
	}
	if len(search.ESearchResult.IDList) == 0 {
		return nil, nil
	}
	pmid := search.ESearchResult.IDList[0]

	summaryURL := pubmedSummaryAPIBase + "?db=pubmed&id=" + quote(pmid) + "&retmode=json"
	var summary pubmedSummaryResponse
	if err := s.Client.getJSON(ctx, summaryURL, nil, &summary); err != nil {
		return nil, err
	}
	raw, ok := summary.Result[pmid]
	if !ok {
		return nil, nil
	}
	var doc pubmedSummaryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil
	}

	meta := &resolver.Metadata{
		Title:   doc.Title,
		Journal: doc.Source,
	}
	if len(doc.PubDate) >= 4 {
		meta.Year = atoiSafe(doc.PubDate[:4])
	}
	for _, a := range doc.Authors {
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
