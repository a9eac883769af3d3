// Package resolver implements the multi-source resolution engine: the
// priority-ordered PDF race, the deadline-bounded metadata merge, the
// per-source rate limiter, the concurrency governor, and PDF link
// verification.
package resolver

// Author is one contributor to a publication.
type Author struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
}

// Metadata is the bibliographic record assembled from providers. Every
// field is optional; a missing field is empty, never an error.
type Metadata struct {
	Title              string   `json:"title,omitempty"`
	Authors            []Author `json:"authors,omitempty"`
	Journal            string   `json:"journal,omitempty"`
	Year               int      `json:"year,omitempty"`
	CorrespondingEmail string   `json:"corresponding_email,omitempty"`
}

// Empty reports whether no provider contributed any field.
func (m Metadata) Empty() bool {
	return m.Title == "" &&
		len(m.Authors) == 0 &&
		m.Journal == "" &&
		m.Year == 0 &&
		m.CorrespondingEmail == ""
}

// PDFResult is a candidate open-access PDF location reported by one
// source. Meta carries side-channel metadata from providers that can
// answer both lookups in a single call.
type PDFResult struct {
	URL      string
	HostType string
	Source   string
	Meta     *Metadata
}

// MetadataResult is what a metadata-capable source returns. Sources
// that also discover a PDF link report it alongside the record.
type MetadataResult struct {
	Meta *Metadata
	PDF  *PDFResult
}

// Outcome is the assembled response for one lookup.
type Outcome struct {
	Message  string   `json:"message"`
	PDFLink  string   `json:"pdf_link,omitempty"`
	HostType string   `json:"host_type,omitempty"`
	Source   string   `json:"source,omitempty"`
	Metadata Metadata `json:"metadata"`
}
