// Package sources implements thin adapters over the external data
// providers queried during resolution. Each adapter maps one
// provider's bespoke response schema onto the common result shape and
// absorbs its own failures.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Config carries provider credentials and toggles. Providers whose
// credential is missing skip themselves and report nothing.
type Config struct {
	COREAPIKey        string
	UnpaywallEmail    string
	GoogleBooksAPIKey string
	BASEEnabled       bool
	UserAgent         string
}

// Client bundles the shared outbound HTTP client and provider
// credentials for every adapter. The HTTP client (and its connection
// pool) lives for the whole process.
type Client struct {
	http *http.Client
	cfg  Config
}

// NewClient builds the shared adapter client.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "paperhound/0.1"
	}
	return &Client{http: httpClient, cfg: cfg}
}

// getJSON issues a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("get %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// getBody issues a GET request and returns the raw response body and
// the final URL after redirects.
func (c *Client) getBody(ctx context.Context, rawURL string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, resp, nil
}

// headOK reports whether a HEAD probe of rawURL answers 2xx.
func (c *Client) headOK(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// quote escapes a DOI for use inside a URL path segment.
func quote(s string) string {
	return url.PathEscape(s)
}

// flexStrings decodes a JSON value that may be either a single string
// or an array of strings; a few providers use both shapes for the
// same field.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*f = flexStrings{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	*f = flexStrings(many)
	return nil
}

// atoiSafe parses s as an integer, yielding 0 on any failure. Several
// providers report years as strings.
func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
