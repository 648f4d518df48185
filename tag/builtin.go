package tag

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wolph/mt940/model"
)

// The grammars mirror the SWIFT field notation: ! fixed length, a text,
// x alphanumeric, d decimal (comma separated), c code value, n numeric.

func newSimpleTag(id, slug, pattern string) *Tag {
	return &Tag{
		ID:        id,
		Slug:      slug,
		Scope:     ScopeCollection,
		Pattern:   regexp.MustCompile(pattern),
		Transform: Identity,
	}
}

// DateTimeIndication is tag 13: the moment the report was created.
// Pattern: 6!n4!n1!x4!n
func DateTimeIndication() *Tag {
	return &Tag{
		ID:    "13",
		Slug:  "date_time_indication",
		Scope: ScopeCollection,
		Pattern: regexp.MustCompile(`(?i)^` +
			`(?P<year>\d{2})` +
			`(?P<month>\d{2})` +
			`(?P<day>\d{2})` +
			`(?P<hour>\d{2})` +
			`(?P<minute>\d{2})` +
			`(\+(?P<offset>\d{4})|)`),
		Transform: func(_ *model.Transactions, fields Fields) (map[string]any, error) {
			dt, err := model.NewDateTime(
				fields.String("year"),
				fields.String("month"),
				fields.String("day"),
				fields.String("hour"),
				fields.String("minute"),
				fields.String("offset"),
			)
			if err != nil {
				return nil, err
			}
			return map[string]any{"date": dt}, nil
		},
	}
}

// TransactionReferenceNumber is tag 20. Pattern: 16x
func TransactionReferenceNumber() *Tag {
	return newSimpleTag("20", "transaction_reference_number",
		`(?i)^(?P<transaction_reference>.{0,16})`)
}

// RelatedReference is tag 21. Pattern: 16x
func RelatedReference() *Tag {
	return newSimpleTag("21", "related_reference",
		`(?i)^(?P<related_reference>.{0,16})`)
}

// AccountIdentification is tag 25. Pattern: 35x
func AccountIdentification() *Tag {
	return newSimpleTag("25", "account_identification",
		`(?i)^(?P<account_identification>.{0,35})`)
}

// StatementNumber is tag 28. Pattern: 5n[/5n]
func StatementNumber() *Tag {
	return newSimpleTag("28", "statement_number",
		`(?i)^(?P<statement_number>\d{1,5})(?:/?(?P<sequence_number>\d{1,5}))?$`)
}

// FloorLimitIndicator is tag 34: the minimum amount above which individual
// transactions are reported, per debit/credit direction.
// Pattern: 3!a[1!a]15d
func FloorLimitIndicator() *Tag {
	return &Tag{
		ID:    "34",
		Slug:  "floor_limit_indicator",
		Scope: ScopeCollection,
		Pattern: regexp.MustCompile(`(?i)^` +
			`(?P<currency>[A-Z]{3})` +
			`(?P<status>[DC ]?)` +
			`(?P<amount>[0-9,]{0,16})$`),
		Transform: floorLimitTransform,
	}
}

func floorLimitTransform(_ *model.Transactions, fields Fields) (map[string]any, error) {
	currency := fields.String("currency")
	amount := fields.String("amount")

	status := strings.TrimSpace(fields.String("status"))
	if status != "" {
		limit, err := model.NewAmount(amount, status, currency)
		if err != nil {
			return nil, err
		}
		return map[string]any{strings.ToLower(status) + "_floor_limit": limit}, nil
	}

	// No explicit direction: the single amount limits both directions.
	debit, err := model.NewAmount(amount, "D", currency)
	if err != nil {
		return nil, err
	}
	credit, err := model.NewAmount(amount, "C", currency)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"d_floor_limit": debit,
		"c_floor_limit": credit,
	}, nil
}

var nonSwiftLine = regexp.MustCompile(`^(?P<ns_id>\d{2})(?P<ns_data>.*)$`)

// NonSwift is the NS tag: bank-specific extensions. The content is either a
// run of digit-pair-prefixed sub-segments or an opaque free-form line.
// Pattern: 2!n35x | *x
func NonSwift() *Tag {
	return &Tag{
		ID:    "NS",
		Slug:  "non_swift",
		Scope: ScopeBoth,
		Pattern: regexp.MustCompile(`(?i)^(?P<non_swift>` +
			`((\d{2}.*)(\n\d{2}.*)*)` +
			`|([^\n]*)` +
			`)$`),
		Transform: nonSwiftTransform,
	}
}

func nonSwiftTransform(_ *model.Transactions, fields Fields) (map[string]any, error) {
	result := make(map[string]any, len(fields))
	for k, v := range fields {
		result[k] = v
	}

	data := fields.String("non_swift")
	var text []string
	for _, line := range strings.Split(data, "\n") {
		frag := nonSwiftLine.FindStringSubmatch(line)
		switch {
		case frag != nil && frag[2] != "":
			result["non_swift_"+frag[1]] = frag[2]
			text = append(text, frag[2])
		case len(text) > 0 && text[len(text)-1] != "":
			text = append(text, "")
		case strings.TrimSpace(line) != "":
			text = append(text, strings.TrimSpace(line))
		}
	}
	result["non_swift_text"] = strings.Join(text, "\n")
	result["non_swift"] = data
	return result, nil
}

// newBalanceTag covers the opening/closing/available balance family.
// Pattern: 1!a6!n3!a15d
func newBalanceTag(id, slug string) *Tag {
	return &Tag{
		ID:    id,
		Slug:  slug,
		Scope: ScopeCollection,
		Pattern: regexp.MustCompile(`(?i)^` +
			`(?P<status>[DC])` +
			`(?P<year>\d{2})` +
			`(?P<month>\d{2})` +
			`(?P<day>\d{2})` +
			`(?P<currency>.{3})` +
			`(?P<amount>[0-9,]{0,16})`),
		Transform: balanceTransform(slug),
	}
}

func balanceTransform(slug string) Transform {
	return func(_ *model.Transactions, fields Fields) (map[string]any, error) {
		date, err := model.NewDate(
			fields.String("year"),
			fields.String("month"),
			fields.String("day"),
		)
		if err != nil {
			return nil, err
		}
		balance, err := model.NewBalance(
			fields.String("status"),
			fields.String("amount"),
			fields.String("currency"),
			date,
		)
		if err != nil {
			return nil, err
		}
		return map[string]any{slug: balance}, nil
	}
}

// OpeningBalance is tag 60.
func OpeningBalance() *Tag { return newBalanceTag("60", "opening_balance") }

// FinalOpeningBalance is tag 60F.
func FinalOpeningBalance() *Tag { return newBalanceTag("60F", "final_opening_balance") }

// IntermediateOpeningBalance is tag 60M.
func IntermediateOpeningBalance() *Tag {
	return newBalanceTag("60M", "intermediate_opening_balance")
}

// ClosingBalance is tag 62.
func ClosingBalance() *Tag { return newBalanceTag("62", "closing_balance") }

// IntermediateClosingBalance is tag 62M.
func IntermediateClosingBalance() *Tag {
	return newBalanceTag("62M", "intermediate_closing_balance")
}

// FinalClosingBalance is tag 62F.
func FinalClosingBalance() *Tag { return newBalanceTag("62F", "final_closing_balance") }

// AvailableBalance is tag 64.
func AvailableBalance() *Tag { return newBalanceTag("64", "available_balance") }

// ForwardAvailableBalance is tag 65.
func ForwardAvailableBalance() *Tag {
	return newBalanceTag("65", "forward_available_balance")
}

// TransactionDetails is tag 86: up to 8 wrapped lines of at most 65
// characters of free-form detail text. Pattern: 6x65x
func TransactionDetails() *Tag {
	return &Tag{
		ID:    "86",
		Slug:  "transaction_details",
		Scope: ScopeTransaction,
		Pattern: regexp.MustCompile(
			`(?is)^(?P<transaction_details>(.{0,65}\r?\n?){0,8}.{0,65})`),
		Transform: Identity,
	}
}

// newSumEntriesTag covers the debit/credit entry totals (90D/90C).
func newSumEntriesTag(id, slug, status string) *Tag {
	return &Tag{
		ID:    id,
		Slug:  slug,
		Scope: ScopeCollection,
		Pattern: regexp.MustCompile(`(?i)^` +
			`(?P<number>\d*)` +
			`(?P<currency>.{3})` +
			`(?P<amount>[\d,]{1,15})`),
		Transform: sumEntriesTransform(slug, status),
	}
}

func sumEntriesTransform(slug, status string) Transform {
	return func(_ *model.Transactions, fields Fields) (map[string]any, error) {
		if status == "" {
			return nil, fmt.Errorf("tag 90 needs a D or C sub tag to mark the direction")
		}
		sum, err := model.NewSumAmount(
			fields.String("amount"),
			status,
			fields.String("currency"),
			fields.String("number"),
		)
		if err != nil {
			return nil, err
		}
		return map[string]any{slug: sum}, nil
	}
}

// SumEntries is the bare tag 90. It exists so boundary sanitization accepts
// the code, but dispatch requires the D/C sub tag.
func SumEntries() *Tag { return newSumEntriesTag("90", "sum_entries", "") }

// SumDebitEntries is tag 90D.
func SumDebitEntries() *Tag { return newSumEntriesTag("90D", "sum_debit_entries", "D") }

// SumCreditEntries is tag 90C.
func SumCreditEntries() *Tag { return newSumEntriesTag("90C", "sum_credit_entries", "C") }
