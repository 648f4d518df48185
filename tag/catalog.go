package tag

// Catalog maps tag codes to their grammar entries. Keys are the codes as
// written on the wire, both bare ("60") and sub-tagged ("60F").
type Catalog map[string]*Tag

// DefaultCatalog returns a fresh catalog with all built-in tags. Each call
// builds a new copy, so per-parse overrides never touch shared state.
func DefaultCatalog() Catalog {
	tags := []*Tag{
		DateTimeIndication(),
		TransactionReferenceNumber(),
		RelatedReference(),
		AccountIdentification(),
		StatementNumber(),
		FloorLimitIndicator(),
		OpeningBalance(),
		FinalOpeningBalance(),
		IntermediateOpeningBalance(),
		Statement(),
		ClosingBalance(),
		IntermediateClosingBalance(),
		FinalClosingBalance(),
		AvailableBalance(),
		ForwardAvailableBalance(),
		TransactionDetails(),
		NonSwift(),
		SumEntries(),
		SumDebitEntries(),
		SumCreditEntries(),
	}

	catalog := make(Catalog, len(tags))
	for _, t := range tags {
		catalog[t.ID] = t
	}
	return catalog
}

// Merge lays overrides on top of the catalog. Override tags keep their own
// scope, slug and transform; built-ins they shadow are replaced wholesale.
func (c Catalog) Merge(overrides map[string]*Tag) {
	for id, t := range overrides {
		c[id] = t
	}
}

// Has reports whether the bare tag code is known. Boundary sanitization
// rejects markers whose code this returns false for.
func (c Catalog) Has(id string) bool {
	_, ok := c[id]
	return ok
}

// Resolve looks a tag up by its full code first ("60F"), falling back to
// the bare code ("60"). A validated code that still resolves to nothing is
// an UnknownTagError.
func (c Catalog) Resolve(fullTag, id string) (*Tag, error) {
	if t, ok := c[fullTag]; ok {
		return t, nil
	}
	if t, ok := c[id]; ok {
		return t, nil
	}
	return nil, &UnknownTagError{Tag: fullTag}
}
