// Package processor implements the pre/post hook pipeline run around each
// tag's transform, plus the sub-parsers for free-form transaction details.
package processor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wolph/mt940/model"
	"github.com/wolph/mt940/tag"
)

// Pre hooks run on the raw field mapping before the tag's transform.
type Pre func(trans *model.Transactions, t *tag.Tag, fields tag.Fields) tag.Fields

// Post hooks run on the typed result after the transform, with access to the
// collection so far, the tag and the raw fields.
type Post func(trans *model.Transactions, t *tag.Tag, fields tag.Fields, result map[string]any) map[string]any

// Pipeline holds ordered hook lists keyed by tag slug. Hooks within a slug
// compose in list order, each receiving the previous hook's output.
type Pipeline struct {
	Pre  map[string][]Pre
	Post map[string][]Post
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Pre:  make(map[string][]Pre),
		Post: make(map[string][]Post),
	}
}

// DefaultPipeline returns a fresh pipeline with the documented defaults:
// February fixup before the statement transform, raw date-field cleanup and
// transaction-reference copy-down after it, and detail sub-parsing after the
// transaction-details transform.
func DefaultPipeline() *Pipeline {
	p := NewPipeline()
	p.Pre["statement"] = []Pre{DateFixup}
	p.Post["statement"] = []Post{
		DateCleanup,
		TransactionsToTransaction("transaction_reference"),
	}
	p.Post["transaction_details"] = []Post{TransactionDetails}
	return p
}

// Merge lays another pipeline's hook lists over this one. Lists replace per
// slug rather than appending, so overrides fully control a slug's hooks.
func (p *Pipeline) Merge(other *Pipeline) {
	if other == nil {
		return
	}
	for slug, hooks := range other.Pre {
		p.Pre[slug] = hooks
	}
	for slug, hooks := range other.Post {
		p.Post[slug] = hooks
	}
}

// AddCurrency returns a pre hook injecting a fixed currency into the raw
// fields, optionally only when none is present yet.
func AddCurrency(currency string, overwrite bool) Pre {
	return func(_ *model.Transactions, _ *tag.Tag, fields tag.Fields) tag.Fields {
		if _, ok := fields["currency"]; !ok || overwrite {
			fields["currency"] = currency
		}
		return fields
	}
}

// DateFixup moves illegal February 29/30 value dates to the last real day of
// that February. Some banks bill on a 30/360 calendar where every month has
// 30 days, and those dates cannot become date values as written.
func DateFixup(_ *model.Transactions, _ *tag.Tag, fields tag.Fields) tag.Fields {
	if fields.String("month") != "02" {
		return fields
	}
	year, err := strconv.Atoi(fields.String("year"))
	if err != nil {
		return fields
	}
	day, err := strconv.Atoi(fields.String("day"))
	if err != nil {
		return fields
	}
	if year < 1000 {
		year += 2000
	}
	// Day zero of March is the last day of February.
	lastDay := time.Date(year, time.March, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		fields["day"] = strconv.Itoa(lastDay)
	}
	return fields
}

// rawDateFields are consumed into date values by the statement transform.
var rawDateFields = []string{"day", "month", "year", "entry_day", "entry_month"}

// DateCleanup removes the raw date fields once date values have been built.
func DateCleanup(_ *model.Transactions, _ *tag.Tag, _ tag.Fields, result map[string]any) map[string]any {
	for _, k := range rawDateFields {
		delete(result, k)
	}
	return result
}

// TransactionsToTransaction returns a post hook copying collection-level
// data keys down into each transaction's result.
func TransactionsToTransaction(keys ...string) Post {
	return func(trans *model.Transactions, _ *tag.Tag, _ tag.Fields, result map[string]any) map[string]any {
		for _, key := range keys {
			if v, ok := trans.Data[key]; ok {
				result[key] = v
			}
		}
		return result
	}
}

// fieldsResult exposes the (possibly augmented) raw fields as a result map.
func fieldsResult(fields tag.Fields) map[string]any {
	result := make(map[string]any, len(fields))
	for k, v := range fields {
		result[k] = v
	}
	return result
}

// MBankSetTransactionCode extracts the leading numeric transaction code from
// the details text. mBank Collect uses code 911 for incoming mass payments,
// so keeping the code helps downstream routing.
func MBankSetTransactionCode(_ *model.Transactions, t *tag.Tag, fields tag.Fields, _ map[string]any) map[string]any {
	details := fields.String(t.Slug)
	token, _, _ := strings.Cut(details, ";")
	token, _, _ = strings.Cut(token, " ")
	if code, err := strconv.Atoi(token); err == nil {
		fields["transaction_code"] = code
	}
	return fieldsResult(fields)
}

var iphIDPattern = regexp.MustCompile(` ID IPH: X*(\d{0,14});`)

// MBankSetIphID extracts the ID IPH mBank Collect uses to distinguish
// virtual accounts.
func MBankSetIphID(_ *model.Transactions, t *tag.Tag, fields tag.Fields, _ map[string]any) map[string]any {
	if m := iphIDPattern.FindStringSubmatch(fields.String(t.Slug)); m != nil {
		fields["iph_id"] = m[1]
	}
	return fieldsResult(fields)
}

var tnrPattern = regexp.MustCompile(`TNR:[ \n](\d+\.\d+)`)

// MBankSetTNR extracts the TNR, the unique transaction number mBank states
// in the details. It identifies the same transaction across statement files,
// e.g. a partial MT942 and the full MT940.
func MBankSetTNR(_ *model.Transactions, t *tag.Tag, fields tag.Fields, _ map[string]any) map[string]any {
	if m := tnrPattern.FindStringSubmatch(fields.String(t.Slug)); m != nil {
		fields["tnr"] = m[1]
	}
	return fieldsResult(fields)
}
