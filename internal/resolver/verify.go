package resolver

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/paperhound/paperhound/internal/metrics"
)

// maxPageBytes caps how much of a landing page the extractor reads.
const maxPageBytes = 2 << 20

// Verifier confirms that candidate URLs actually serve a PDF before
// they are surfaced, with a landing-page scrape as fallback.
type Verifier struct {
	client *http.Client
	logger *zap.Logger
}

// NewVerifier builds a Verifier on the shared outbound client.
func NewVerifier(client *http.Client, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{client: client, logger: logger}
}

// Verify issues a header-only probe for rawURL. It returns true when
// the content-type or content-disposition header mentions "pdf", or
// the URL path ends in ".pdf". Any transport failure yields false.
func (v *Verifier) Verify(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("pdf probe failed", zap.String("url", rawURL), zap.Error(err))
		metrics.ObserveVerification("probe_error")
		return false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveVerification("rejected")
		return false
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	disposition := strings.ToLower(resp.Header.Get("Content-Disposition"))
	if strings.Contains(contentType, "pdf") || strings.Contains(disposition, "pdf") {
		metrics.ObserveVerification("verified")
		return true
	}
	if u, parseErr := url.Parse(rawURL); parseErr == nil && strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		metrics.ObserveVerification("verified")
		return true
	}
	metrics.ObserveVerification("rejected")
	return false
}

// ExtractFromPage fetches pageURL and scans its body for a linked PDF.
// Candidates are gathered in a fixed pattern order: anchors ending
// ".pdf", any quoted string ending ".pdf", anchors ending
// "?download=1", anchors ending "/download". Each candidate is
// resolved against the page URL and verified; the first one that
// verifies wins.
func (v *Verifier) ExtractFromPage(ctx context.Context, pageURL string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("page fetch failed", zap.String("url", pageURL), zap.Error(err))
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", false
	}

	for _, candidate := range scanCandidates(body) {
		resolved := resolveCandidate(base, candidate)
		if resolved == "" {
			continue
		}
		if v.Verify(ctx, resolved) {
			return resolved, true
		}
	}
	return "", false
}

// quotedPDFPattern matches any quoted string ending in ".pdf".
var quotedPDFPattern = regexp.MustCompile(`["']([^"'<>\s]+\.pdf)["']`)

// scanCandidates collects candidate links from the page body in the
// fixed pattern order the extractor promises.
func scanCandidates(body []byte) []string {
	var hrefs []string
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok {
				hrefs = append(hrefs, href)
			}
		})
	}

	var candidates []string
	seen := make(map[string]struct{})
	add := func(c string) {
		if c == "" {
			return
		}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}

	for _, href := range hrefs {
		if strings.HasSuffix(strings.ToLower(href), ".pdf") {
			add(href)
		}
	}
	for _, match := range quotedPDFPattern.FindAllSubmatch(body, -1) {
		add(string(match[1]))
	}
	for _, href := range hrefs {
		if strings.HasSuffix(strings.ToLower(href), "?download=1") {
			add(href)
		}
	}
	for _, href := range hrefs {
		if strings.HasSuffix(strings.ToLower(href), "/download") {
			add(href)
		}
	}
	return candidates
}

// resolveCandidate turns a scraped link into an absolute URL. Links
// starting with "/" resolve against the page's scheme and host;
// non-absolute links join the page URL's directory.
func resolveCandidate(base *url.URL, href string) string {
	if strings.HasPrefix(href, "/") {
		return base.Scheme + "://" + base.Host + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return href
	}
	return base.ResolveReference(ref).String()
}
