package sources

import (
	"context"
	"net/url"
	"strings"

	"github.com/paperhound/paperhound/internal/resolver"
)

var shareAPIBase = "https://share.osf.io/api/v2/search/"

// Share searches the OSF SHARE aggregator. Its records occasionally
// carry direct PDF links in several attribute fields, all of which are
// checked in turn.
type Share struct {
	Client *Client
}

func (s *Share) Name() string { return "share" }

type shareResponse struct {
	Data []struct {
		Attributes struct {
			Sources []struct {
				URL string `json:"url"`
			} `json:"sources"`
			Fulltext string `json:"fulltext"`
			Links    struct {
				PDF  string `json:"pdf"`
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"attributes"`
	} `json:"data"`
}

func (s *Share) FindPDF(ctx context.Context, doi string) (*resolver.PDFResult, error) {
	u := shareAPIBase + "?q=" + url.QueryEscape("doi:"+doi) + "&page[size]=5"
	var body shareResponse
	if err := s.Client.getJSON(ctx, u, nil, &body); err != nil {
		return nil, err
	}
	for _, item := range body.Data {
		attrs := item.Attributes
		candidates := []string{attrs.Links.PDF, attrs.Fulltext, attrs.Links.HTML}
		for _, src := range attrs.Sources {
			candidates = append(candidates, src.URL)
		}
		for _, c := range candidates {
			if c == "" || !strings.HasSuffix(strings.ToLower(c), ".pdf") {
				continue
			}
			return &resolver.PDFResult{
				URL:      c,
				HostType: "Share API",
				Source:   "Share",
			}, nil
		}
	}
	return nil, nil
}
