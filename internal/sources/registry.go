package sources

import "github.com/paperhound/paperhound/internal/resolver"

// DefaultRegistry builds the full provider set. PDF sources are listed
// in award priority order: prefix-gated repositories first because a
// match there is near certain, then the open access indexes, then the
// aggregators, and finally the registrar redirect as a catch-all.
// Metadata sources are listed most complete records first.
func DefaultRegistry(c *Client) resolver.Registry {
	return resolver.Registry{
		PDF: []resolver.PDFSource{
			&ArXiv{Client: c},
			&BioRxiv{Client: c},
			&MedRxiv{Client: c},
			&Unpaywall{Client: c},
			&EuropePMC{Client: c},
			&EuropePMCPreprints{Client: c},
			&CORE{Client: c},
			&BASE{Client: c},
			&Zenodo{Client: c},
			&Figshare{Client: c},
			&Share{Client: c},
			&OpenAIRE{Client: c},
			&InternetArchive{Client: c},
			&DOIResolver{Client: c},
		},
		Metadata: []resolver.MetadataSource{
			&Crossref{Client: c},
			&OpenAlex{Client: c},
			&SemanticScholar{Client: c},
			&OpenAIREMetadata{Client: c},
			&DOAJ{Client: c},
			&PLOS{Client: c},
			&COREWorks{Client: c},
			&PubMed{Client: c},
			&Dryad{Client: c},
			&InternetArchiveMetadata{Client: c},
			&EuropePMCGrants{Client: c},
			&Wikidata{Client: c},
			&GoogleBooks{Client: c},
			&CrossrefEvents{Client: c},
		},
	}
}
