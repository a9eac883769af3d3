package resolver

import (
	"regexp"
	"strings"
)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// urlPrefixes are resolver front-ends commonly pasted ahead of a DOI.
var urlPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
}

// NormalizeDOI trims whitespace and strips resolver-URL and "doi:"
// prefixes so adapters always see the bare identifier.
func NormalizeDOI(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, p := range urlPrefixes {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	if len(s) >= 4 && strings.EqualFold(s[:4], "doi:") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}

// IsDOI reports whether s looks like a normalized DOI.
func IsDOI(s string) bool {
	return doiPattern.MatchString(s)
}
