package resolver

import "context"

// PDFSource locates a direct PDF link for a DOI. Implementations must
// absorb their own transport and parse failures: an error return is
// logged and treated as "no result", never propagated to the caller
// of the race.
type PDFSource interface {
	Name() string
	FindPDF(ctx context.Context, doi string) (*PDFResult, error)
}

// MetadataSource fetches bibliographic metadata for a DOI. The same
// failure contract as PDFSource applies.
type MetadataSource interface {
	Name() string
	FetchMetadata(ctx context.Context, doi string) (*MetadataResult, error)
}

// Registry holds the two ordered source lists. List position encodes
// priority: specialized repository sources come before general
// aggregators, which come before publisher-page scrapers. A provider
// able to answer both lookups from one call may appear in both lists.
type Registry struct {
	PDF      []PDFSource
	Metadata []MetadataSource
}
