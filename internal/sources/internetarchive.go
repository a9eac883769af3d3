package sources

import (
	"context"
	"fmt"

	"github.com/paperhound/paperhound/internal/resolver"
)

// Base URLs for the Internet Archive search and metadata APIs.
// Declared as vars so tests can substitute httptest servers.
var (
	archiveSearchAPIBase   = "https://archive.org/advancedsearch.php"
	archiveMetadataAPIBase = "https://archive.org/metadata/"
	archiveDownloadBase    = "https://archive.org/download/"
)

// InternetArchive searches archive.org items matching the DOI and
// probes their conventional PDF download path.
type InternetArchive struct {
	Client *Client
}

func (s *InternetArchive) Name() string { return "internet_archive" }

type archiveSearchResponse struct {
	Response struct {
		Docs []struct {
			Identifier string `json:"identifier"`
		} `json:"docs"`
	} `json:"response"`
}

func (s *InternetArchive) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	u := archiveSearchAPIBase + "?q=doi:" + quote(doi) + "&fl[]=identifier&fl[]=title&fl[]=downloads&fl[]=mediatype&output=json"
	var payload archiveSearchResponse
	if err := s.Client.getJSON(ctx, u, nil, &payload); err != nil {
		return nil, err
	}
	for _, doc := range payload.Response.Docs {
		if doc.Identifier == "" {
			continue
		}
		pdfURL := fmt.Sprintf("%s%s/%s.pdf", archiveDownloadBase, doc.Identifier, doc.Identifier)
		if s.Client.headOK(ctx, pdfURL) {
			return &resolver.PDFResult{URL: pdfURL, HostType: "Internet Archive", Source: "Internet Archive"}, nil
		}
	}
	return nil, nil
}

// InternetArchiveMetadata fetches item metadata keyed by the DOI.
type InternetArchiveMetadata struct {
	Client *Client
}

func (s *InternetArchiveMetadata) Name() string { return "internet_archive" }

type archiveMetadataResponse struct {
	Metadata struct {
		Title   string      `json:"title"`
		Creator flexStrings `json:"creator"`
	} `json:"metadata"`
}

func (s *InternetArchiveMetadata) FetchMetadata(ctx context.Context, doi string) (*resolver.MetadataResult, error) {
	var payload archiveMetadataResponse
	if err := s.Client.getJSON(ctx, archiveMetadataAPIBase+quote(doi), nil, &payload); err != nil {
		return nil, err
	}

	meta := &resolver.Metadata{Title: payload.Metadata.Title}
	for _, name := range payload.Metadata.Creator {
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
