// Package tag defines the per-tag grammars of the MT940/MT942 format: a
// declarative field pattern, a merge scope and a transform that builds the
// typed result for each tag.
package tag

import (
	"fmt"
	"regexp"

	"github.com/wolph/mt940/model"
)

// Scope states where a parsed tag result is merged: into the collection
// data, into the current transaction, or either depending on context.
type Scope int

const (
	ScopeCollection Scope = iota
	ScopeTransaction
	ScopeBoth
)

// Fields is the raw field mapping extracted by a tag's pattern. Every named
// capture is present as a key; unmatched optional groups hold nil.
type Fields map[string]any

// String returns the field as a string, or "" when absent or nil.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Has reports whether the field matched (present and non-nil).
func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// Transform builds a tag's typed result from its raw fields. The collection
// is passed for cross-record derivations such as currency defaulting.
type Transform func(trans *model.Transactions, fields Fields) (map[string]any, error)

// Tag couples an identifier with its grammar, scope and transform. The slug
// keys processor-pipeline lookups (pre_<slug>, post_<slug>).
type Tag struct {
	// ID is the tag code as written on the wire: "61", "60F", "NS".
	ID   string
	Slug string

	Scope Scope

	// StartsTransaction marks the statement-line tag, which opens a new
	// transaction instead of merging into the current one.
	StartsTransaction bool

	// Pattern extracts named fields. Tags with grammars beyond what a
	// regular expression can express set Match instead.
	Pattern *regexp.Regexp
	Match   func(value string) (Fields, error)

	Transform Transform
}

// Parse extracts the raw field mapping from a tag's value text, or fails
// with a MalformedTagError carrying the offending text and pattern.
func (t *Tag) Parse(value string) (Fields, error) {
	if t.Match != nil {
		return t.Match(value)
	}

	loc := t.Pattern.FindStringSubmatchIndex(value)
	if loc == nil || loc[0] != 0 {
		return nil, &MalformedTagError{Tag: t.ID, Value: value, Pattern: t.Pattern.String()}
	}

	fields := make(Fields)
	for i, name := range t.Pattern.SubexpNames() {
		if name == "" {
			continue
		}
		if loc[2*i] < 0 {
			fields[name] = nil
			continue
		}
		fields[name] = value[loc[2*i]:loc[2*i+1]]
	}
	return fields, nil
}

// Identity is the transform for tags whose raw fields are the result. Caller
// defined tags can use it directly.
func Identity(_ *model.Transactions, fields Fields) (map[string]any, error) {
	result := make(map[string]any, len(fields))
	for k, v := range fields {
		result[k] = v
	}
	return result, nil
}

// MalformedTagError reports a recognized tag whose value text did not match
// its field pattern.
type MalformedTagError struct {
	Tag     string
	Value   string
	Pattern string
}

func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("tag %s: value %q does not match pattern %q", e.Tag, e.Value, e.Pattern)
}

// UnknownTagError reports a tag code absent from the catalog.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %q", e.Tag)
}
