// Package mt940 parses SWIFT MT940/MT942 bank account statements into a
// structured collection of statements, balances and transactions. Banks vary
// the format in incompatible ways, so the tag catalog and the processor
// pipeline are configurable per parse.
package mt940

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wolph/mt940/model"
	"github.com/wolph/mt940/processor"
	"github.com/wolph/mt940/tag"
)

// Parser drives one or more parses. Each Parse call works on a fresh
// Transactions collection; a Parser is safe for concurrent use as its
// catalog and pipeline are never mutated after construction.
type Parser struct {
	catalog  tag.Catalog
	pipeline *processor.Pipeline
	encoding string
	log      zerolog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithTags merges tag overrides on top of the default catalog, keyed by tag
// code. This is how bank-specific grammars such as the ASN Bank statement
// line are enabled.
func WithTags(overrides map[string]*tag.Tag) Option {
	return func(p *Parser) { p.catalog.Merge(overrides) }
}

// WithProcessors merges pipeline overrides on top of the defaults. Hook
// lists replace per slug.
func WithProcessors(overrides *processor.Pipeline) Option {
	return func(p *Parser) { p.pipeline.Merge(overrides) }
}

// WithEncoding sets the preferred character encoding tried first when
// parsing raw bytes via ParseFile or ParseReader.
func WithEncoding(encoding string) Option {
	return func(p *Parser) { p.encoding = encoding }
}

// WithLogger enables debug logging of tag matches.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) { p.log = log }
}

// New creates a Parser with the default catalog and pipeline, then applies
// options. The built-in defaults are copied, never shared.
func New(opts ...Option) *Parser {
	p := &Parser{
		catalog:  tag.DefaultCatalog(),
		pipeline: processor.DefaultPipeline(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a convenience wrapper around New(opts...).Parse(data).
func Parse(data string, opts ...Option) (*model.Transactions, error) {
	return New(opts...).Parse(data)
}

// tagBoundary locates tag markers: a line starting with ":", an optional
// line wrap, a 2-digit or NS code, an optional uppercase sub tag and a
// closing ":".
var tagBoundary = regexp.MustCompile(`(?m)^:\n?((\d{2}|NS)([A-Z])?):`)

// boundary is one retained tag marker with its value span start.
type boundary struct {
	fullTag string
	tagID   string
	start   int
	end     int
}

// Parse scans a decoded statement document and assembles the transaction
// graph. Any unparsable tag aborts the whole parse; there is no partial
// result.
func (p *Parser) Parse(data string) (*model.Transactions, error) {
	trans := model.NewTransactions()

	data = normalize(data)
	matches := p.sanitize(scanBoundaries(data))

	for i, match := range matches {
		valueEnd := len(data)
		if i+1 < len(matches) {
			valueEnd = matches[i+1].start
		}
		value := strings.TrimSpace(data[match.end:valueEnd])

		if err := p.processTag(trans, match, value); err != nil {
			return nil, err
		}
	}

	return trans, nil
}

func (p *Parser) processTag(trans *model.Transactions, match boundary, value string) error {
	t, err := p.catalog.Resolve(match.fullTag, match.tagID)
	if err != nil {
		return err
	}

	fields, err := t.Parse(value)
	if err != nil {
		return err
	}
	p.log.Debug().
		Str("tag", match.fullTag).
		Str("value", value).
		Int("fields", len(fields)).
		Msg("matched tag")

	for _, hook := range p.pipeline.Pre[t.Slug] {
		fields = hook(trans, t, fields)
	}

	result, err := t.Transform(trans, fields)
	if err != nil {
		return err
	}

	for _, hook := range p.pipeline.Post[t.Slug] {
		result = hook(trans, t, fields, result)
	}

	p.merge(trans, t, result)
	return nil
}

// merge folds a tag result into the evolving graph according to scope.
func (p *Parser) merge(trans *model.Transactions, t *tag.Tag, result map[string]any) {
	switch {
	case t.StartsTransaction:
		if trans.Len() == 0 {
			trans.Append(model.NewTransaction(trans, nil))
		}
		last := trans.Last()
		if hasValue(last.Data, "id") {
			trans.Append(model.NewTransaction(trans, result))
		} else {
			last.Update(result)
		}

	case (t.Scope == tag.ScopeTransaction || t.Scope == tag.ScopeBoth) && trans.Len() > 0:
		trans.Last().Merge(result)

	case t.Scope == tag.ScopeCollection || t.Scope == tag.ScopeBoth:
		for k, v := range result {
			trans.Data[k] = v
		}
	}
}

// hasValue reports whether the key holds a non-empty value. A transaction
// whose type code is already set is complete: the next statement line starts
// a new one.
func hasValue(data map[string]any, key string) bool {
	switch v := data[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}

// normalize strips carriage returns and trailing whitespace, drops lone "-"
// block terminators and empty lines, and rejoins the document.
func normalize(data string) string {
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.ReplaceAll(line, "\r", "")
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "-" {
			continue
		}
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func scanBoundaries(data string) []boundary {
	var matches []boundary
	for _, loc := range tagBoundary.FindAllStringSubmatchIndex(data, -1) {
		matches = append(matches, boundary{
			fullTag: data[loc[2]:loc[3]],
			tagID:   data[loc[4]:loc[5]],
			start:   loc[0],
			end:     loc[1],
		})
	}
	return matches
}

// sanitize drops boundary markers whose tag code is not in the catalog, and
// skips false boundaries inside long transaction-details content: once an
// :86: match is accepted, everything up to the next catalog-known code
// belongs to the details text. Some banks wrap detail lines that happen to
// start with digit pairs, which would otherwise split the tag.
func (p *Parser) sanitize(matches []boundary) []boundary {
	var valid []boundary
	next := 0
	for i, match := range matches {
		if i < next {
			continue
		}
		next = i + 1

		if !p.catalog.Has(match.tagID) {
			p.log.Debug().Str("tag", match.fullTag).Msg("dropping unknown tag")
			continue
		}

		if match.tagID == "86" {
			for j := next; j < len(matches); j++ {
				if p.catalog.Has(matches[j].tagID) {
					next = j
					break
				}
			}
		}
		valid = append(valid, match)
	}
	return valid
}
