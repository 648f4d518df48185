package tag

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wolph/mt940/model"
)

// Statement is tag 61: the statement line carrying one transaction's core
// financial data. Each occurrence may start a new transaction.
//
// Pattern: 6!n[4!n]2a[1!a]15d1!a3!c16x[//23x][34x]
func Statement() *Tag {
	return &Tag{
		ID:                "61",
		Slug:              "statement",
		Scope:             ScopeTransaction,
		StartsTransaction: true,
		Match: func(value string) (Fields, error) {
			return matchStatementLine(value, statementPrefix, customerReferenceWidth, bankReferenceWidth)
		},
		Transform: statementTransform,
	}
}

// StatementASNB is the ASN Bank variant of tag 61: the customer reference is
// widened to 34 characters (ASN puts the IBAN there) and may itself contain
// slashes. Registered via a catalog override, not by default.
//
// Pattern: 6!n[4!n]2a[1!a]15d1!a3!c34x[//16x][34x]
func StatementASNB() *Tag {
	t := Statement()
	t.Match = func(value string) (Fields, error) {
		return matchStatementLine(value, statementPrefixASNB, customerReferenceWidthASNB, bankReferenceWidthASNB)
	}
	return t
}

const (
	customerReferenceWidth     = 16
	bankReferenceWidth         = 23
	customerReferenceWidthASNB = 34
	bankReferenceWidthASNB     = 16

	extraDetailsWidth = 34
)

// statementPrefix covers everything up to the customer reference. The
// remainder needs the "//" bank-reference split, which a single regular
// expression cannot express without lookahead, so it is scanned by hand.
var statementPrefix = regexp.MustCompile(`(?i)^` +
	`(?P<year>\d{2})` + // 6!n value date (YYMMDD)
	`(?P<month>\d{2})` +
	`(?P<day>\d{2})` +
	`(?P<entry_month>\d{2}|\s{2})?` + // [4!n] entry date (MMDD) or spaces
	`(?P<entry_day>\d{2}|\s{2})?` +
	`(?P<status>R?[DC])` + // 2a debit/credit mark, R marks a reversal
	`(?P<funds_code>[A-Z])?` + // [1!a] third character of the currency code
	`[\n ]?` + // some banks wrap or pad before the amount
	`(?P<amount>[\d,]{1,15})` + // 15d
	`(?P<id>[A-Z][A-Z0-9 ]{3})?`) // 1!a3!c transaction type code

var statementPrefixASNB = regexp.MustCompile(`(?i)^` +
	`(?P<year>\d{2})` +
	`(?P<month>\d{2})` +
	`(?P<day>\d{2})` +
	`(?P<entry_month>\d{2}|\s{2})?` +
	`(?P<entry_day>\d{2}|\s{2})?` +
	`(?P<status>[A-Z]?[DC])` +
	`(?P<funds_code>[A-Z])?` +
	`\n?` +
	`(?P<amount>[\d,]{1,15})` +
	`(?P<id>[A-Z][A-Z0-9 ]{3})?`)

// matchStatementLine extracts the statement-line fields: the fixed-width
// prefix via regexp, then the customer/bank reference split and the
// supplementary-details line by hand.
func matchStatementLine(value string, prefix *regexp.Regexp, refWidth, bankWidth int) (Fields, error) {
	fail := func() (Fields, error) {
		return nil, &MalformedTagError{Tag: "61", Value: value, Pattern: prefix.String()}
	}

	loc := prefix.FindStringSubmatchIndex(value)
	if loc == nil || loc[0] != 0 {
		return fail()
	}

	fields := make(Fields)
	for i, name := range prefix.SubexpNames() {
		if name == "" {
			continue
		}
		if loc[2*i] < 0 {
			fields[name] = nil
			continue
		}
		fields[name] = value[loc[2*i]:loc[2*i+1]]
	}

	tail := value[loc[1]:]
	refLine := tail
	supplementary := ""
	hasSupplementary := false
	if nl := strings.IndexByte(tail, '\n'); nl >= 0 {
		refLine = tail[:nl]
		supplementary = tail[nl+1:]
		hasSupplementary = true
	}

	// Customer reference: at most refWidth characters, stopping before any
	// "//" run (the narrow grammar only; ASN customer references may
	// contain slashes).
	cut := len(refLine)
	if refWidth == customerReferenceWidth {
		if idx := strings.Index(refLine, "//"); idx >= 0 && idx < refWidth {
			cut = idx
		}
	}
	if cut > refWidth {
		cut = refWidth
	}
	fields["customer_reference"] = refLine[:cut]
	rest := refLine[cut:]

	fields["bank_reference"] = nil
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		bankCut := len(rest)
		if bankCut > bankWidth {
			bankCut = bankWidth
		}
		fields["bank_reference"] = rest[:bankCut]
		rest = rest[bankCut:]
	}

	// Supplementary details: whatever is left on the reference line, or a
	// single wrapped line, but never both.
	extra := rest
	if hasSupplementary {
		if rest != "" {
			return fail()
		}
		extra = supplementary
	}
	if len(extra) > extraDetailsWidth || strings.ContainsRune(extra, '\n') {
		return fail()
	}
	fields["extra_details"] = extra

	return fields, nil
}

// yearWrapDays is the window beyond which the entry date is assumed to fall
// in the neighboring year. Entry dates carry no year on the wire, and
// statements can straddle December 31st.
const yearWrapDays = 330

func statementTransform(trans *model.Transactions, fields Fields) (map[string]any, error) {
	data := make(map[string]any, len(fields))
	for k, v := range fields {
		data[k] = v
	}

	if _, ok := data["currency"]; !ok {
		data["currency"] = trans.Currency()
	}
	currency, _ := data["currency"].(string)

	amount, err := model.NewAmount(fields.String("amount"), fields.String("status"), currency)
	if err != nil {
		return nil, err
	}
	data["amount"] = amount

	date, err := model.NewDate(fields.String("year"), fields.String("month"), fields.String("day"))
	if err != nil {
		return nil, err
	}
	data["date"] = date

	entryDay := fields.String("entry_day")
	entryMonth := fields.String("entry_month")
	if isDigits(entryDay) && isDigits(entryMonth) {
		entryDate, err := model.NewDate(strconv.Itoa(date.Year()), entryMonth, entryDay)
		if err != nil {
			return nil, err
		}
		data["entry_date"] = entryDate

		guessed, err := guessEntryDate(date, entryDate)
		if err != nil {
			return nil, err
		}
		data["guessed_entry_date"] = guessed
	}

	return data, nil
}

// guessEntryDate picks the entry date's real year. The wire format carries
// only month and day, so an entry far from the value date is moved into the
// neighboring year.
func guessEntryDate(date, entryDate model.Date) (model.Date, error) {
	shift := 0
	switch gap := int(date.Sub(entryDate.Time).Hours() / 24); {
	case gap >= yearWrapDays:
		shift = 1
	case gap <= -yearWrapDays:
		shift = -1
	}
	return model.MakeDate(entryDate.Year()+shift, int(entryDate.Month()), entryDate.Day())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
