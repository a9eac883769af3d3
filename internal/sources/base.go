package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

// baseAPIBase is the BASE searchRetrieve endpoint. Declared as a var
// so tests can substitute an httptest server.
var baseAPIBase = "https://api.base-search.net/cgi-bin/BaseAPI.dll"

// BASE queries the Bielefeld Academic Search Engine. Access is
// IP-whitelisted, so the adapter is disabled unless explicitly
// enabled in config. The response is SRU XML carrying Dublin Core
// identifiers.
type BASE struct {
	Client *Client
}

func (s *BASE) Name() string { return "base" }

type baseRecord struct {
	Identifiers []string `xml:"recordData>dc>identifier"`
}

type baseResponse struct {
	Records []baseRecord `xml:"records>record"`
}

func (s *BASE) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	if !s.Client.cfg.BASEEnabled {
		return nil, nil
	}
	u := fmt.Sprintf("%s?operation=searchRetrieve&query=doi=%s&maximumRecords=1&recordSchema=dc", baseAPIBase, quote(doi))
	body, _, err := s.Client.getBody(ctx, u)
	if err != nil {
		return nil, err
	}

	var payload baseResponse
	if err := xml.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode BASE response: %w", err)
	}
	for _, record := range payload.Records {
		for _, id := range record.Identifiers {
			if strings.HasSuffix(strings.ToLower(id), ".pdf") {
				return &resolver.PDFResult{URL: id, HostType: "BASE", Source: "BASE"}, nil
			}
		}
	}
	return nil, nil
}
