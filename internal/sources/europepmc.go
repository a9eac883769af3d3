package sources

import (
	"context"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// europePMCAPIBase is the Europe PMC REST search endpoint. Declared as
// a var so tests can substitute an httptest server.
var europePMCAPIBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

type europePMCResponse struct {
	ResultList struct {
		Result []struct {
			Title           string `json:"title"`
			AuthorString    string `json:"authorString"`
			FullTextURLList struct {
				FullTextURL []struct {
					URL           string `json:"url"`
					DocumentStyle string `json:"documentStyle"`
					Availability  string `json:"availability"`
				} `json:"fullTextUrl"`
			} `json:"fullTextUrlList"`
		} `json:"result"`
	} `json:"resultList"`
}

func europePMCSearch(ctx context.Context, c *Client, query string) (*europePMCResponse, error) {
	var payload europePMCResponse
	if err := c.getJSON(ctx, europePMCAPIBase+"?query="+query+"&format=json", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func europePMCOpenAccessPDF(payload *europePMCResponse, hostType string) *resolver.PDFResult {
	for _, result := range payload.ResultList.Result {
		for _, ft := range result.FullTextURLList.FullTextURL {
			if ft.DocumentStyle == "pdf" && ft.Availability == "OPEN_ACCESS" {
				return &resolver.PDFResult{URL: ft.URL, HostType: hostType, Source: hostType}
			}
		}
	}
	return nil
}

// EuropePMC searches Europe PMC for open-access full-text PDF links.
type EuropePMC struct {
	Client *Client
}

func (s *EuropePMC) Name() string { return "europepmc" }

func (s *EuropePMC) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	payload, err := europePMCSearch(ctx, s.Client, "DOI:"+quote(doi))
	if err != nil {
		return nil, err
	}
	return europePMCOpenAccessPDF(payload, "EuropePMC"), nil
}

// EuropePMCPreprints restricts the same search to preprints.
type EuropePMCPreprints struct {
	Client *Client
}

func (s *EuropePMCPreprints) Name() string { return "europepmc_preprints" }

func (s *EuropePMCPreprints) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	payload, err := europePMCSearch(ctx, s.Client, "DOI:"+quote(doi)+"+AND+PUB_TYPE:preprint")
	if err != nil {
		return nil, err
	}
	return europePMCOpenAccessPDF(payload, "EuropePMC Preprints"), nil
}

// EuropePMCGrants fetches grant-linked records for the DOI; only the
// title and author string are usable as metadata.
type EuropePMCGrants struct {
	Client *Client
}

func (s *EuropePMCGrants) Name() string { return "europepmc_grants" }

func (s *EuropePMCGrants) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	payload, err := europePMCSearch(ctx, s.Client, "DOI:"+quote(doi)+"+AND+grants")
	if err != nil {
		return nil, err
	}
	results := payload.ResultList.Result
	if len(results) == 0 {
		return nil, nil
	}
	item := results[0]

	meta := &resolver.Metadata{Title: item.Title}
	for _, name := range strings.Split(item.AuthorString, ", ") {
		name = strings.TrimSuffix(strings.TrimSpace(name), ".")
		if name == "" {
			continue
		}
		meta.Authors = append(meta.Authors, resolver.Author{Name: name})
	}
	if meta.Empty() {
		return nil, nil
	}
	return &resolver.MetadataResult{Meta: meta}, nil
}
