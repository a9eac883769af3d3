package resolver

// Merge folds incoming into base, filling only fields base is missing.
// A non-empty field of base is never overwritten, so Merge(a, zero)
// returns a unchanged and Merge(zero, b) returns b.
func Merge(base, incoming Metadata) Metadata {
	if base.Title == "" {
		base.Title = incoming.Title
	}
	if base.Journal == "" {
		base.Journal = incoming.Journal
	}
	if base.Year == 0 {
		base.Year = incoming.Year
	}
	if base.CorrespondingEmail == "" {
		base.CorrespondingEmail = incoming.CorrespondingEmail
	}
	base.Authors = mergeAuthors(base.Authors, incoming.Authors)
	return base
}

// mergeAuthors unions two author lists keyed by exact name. Existing
// order is preserved; incoming authors with new names are appended in
// their own order.
func mergeAuthors(base, incoming []Author) []Author {
	if len(incoming) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base))
	for _, a := range base {
		seen[a.Name] = struct{}{}
	}
	merged := base
	for _, a := range incoming {
		if _, dup := seen[a.Name]; dup {
			continue
		}
		seen[a.Name] = struct{}{}
		merged = append(merged, a)
	}
	return merged
}
