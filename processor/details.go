package processor

import (
	"regexp"
	"strings"

	"github.com/wolph/mt940/model"
	"github.com/wolph/mt940/tag"
)

// detailSeparator recognizes the structural separator used by a bank's
// details dialect: a 3-4 digit operation code followed by a separator glyph,
// or a bare leading separator glyph.
var detailSeparator = regexp.MustCompile(`^(?:\d{3,4})?([?<>~^])`)

// detailFields names the detail fields in output order.
var detailFields = []string{
	"transaction_code",
	"posting_text",
	"prima_nota",
	"purpose",
	"applicant_name",
	"applicant_bin",
	"applicant_iban",
	"return_debit_notes",
	"recipient_name",
	"additional_purpose",
	"bank_reference",
}

// detailKeys maps the 2-digit sub-segment codes of the German MT940 details
// dialect to named fields. The empty code is the leading segment.
var detailKeys = map[string]string{
	"":   "transaction_code",
	"00": "posting_text",
	"10": "prima_nota",
	"20": "purpose",
	"21": "purpose",
	"22": "purpose",
	"23": "purpose",
	"24": "purpose",
	"25": "purpose",
	"26": "purpose",
	"27": "applicant_name",
	"28": "applicant_name",
	"29": "applicant_name",
	"30": "applicant_bin",
	"31": "applicant_iban",
	"32": "applicant_name",
	"33": "applicant_name",
	"34": "return_debit_notes",
	"35": "recipient_name",
	"60": "additional_purpose",
	"61": "additional_purpose",
	"62": "additional_purpose",
	"63": "bank_reference",
	"64": "additional_purpose",
}

// gvcKeys maps the SEPA purpose codes (Geschäftsvorfallcodes) embedded in
// the purpose text to named fields. The empty code is the default purpose.
var gvcKeys = map[string]string{
	"":     "purpose",
	"IBAN": "gvc_applicant_iban",
	"BIC ": "gvc_applicant_bin",
	"EREF": "end_to_end_reference",
	"MREF": "additional_position_reference",
	"CRED": "applicant_creditor_id",
	"PURP": "purpose_code",
	"SVWZ": "purpose",
	"MDAT": "additional_position_date",
	"ABWA": "deviate_applicant",
	"ABWE": "deviate_recipient",
	"SQTP": "FRST_ONE_OFF_RECC",
	"ORCR": "old_SEPA_CI",
	"ORMR": "old_SEPA_additional_position_reference",
	"DDAT": "settlement_tag",
	"KREF": "customer_reference",
	"DEBT": "debitor_identifier",
	"COAM": "compensation_amount",
	"OAMT": "original_amount",
}

// TransactionDetails decodes the free-form details text into named fields:
// separator-split sub-segments, then GVC purpose decomposition. Absent codes
// yield nil fields, never errors.
func TransactionDetails(trans *model.Transactions, t *tag.Tag, fields tag.Fields, result map[string]any) map[string]any {
	return parseDetails(fields, result, "")
}

// TransactionDetailsWithSpace behaves like TransactionDetails but joins
// segments of the same field with spaces instead of butting them together.
func TransactionDetailsWithSpace(trans *model.Transactions, t *tag.Tag, fields tag.Fields, result map[string]any) map[string]any {
	return parseDetails(fields, result, " ")
}

func parseDetails(fields tag.Fields, result map[string]any, joiner string) map[string]any {
	raw := fields.String("transaction_details")
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(line, "\r\n")
	}
	details := strings.Join(lines, "")

	m := detailSeparator.FindStringSubmatch(details)
	if m == nil {
		// No recognizable structure: the whole block is purpose text.
		result["purpose"] = strings.Join(lines, "\n")
		return result
	}
	sep := m[1][0]

	for field, value := range splitDetailSegments(details, sep, joiner) {
		result[field] = value
	}

	if purpose, ok := result["purpose"].(string); ok && len(purpose) >= 4 {
		if _, known := gvcKeys[purpose[:4]]; known {
			for field, value := range parseGVCodes(purpose) {
				result[field] = value
			}
		}
	}

	delete(result, "transaction_details")
	return result
}

// splitDetailSegments cuts the details into <2-digit-code><separator>
// segments and folds them into named fields. Distinct codes mapping to the
// same field concatenate in appearance order; a repeated code overwrites its
// earlier occurrence.
func splitDetailSegments(details string, sep byte, joiner string) map[string]any {
	var codes []string
	segments := make(map[string]string)

	flush := func(code, segment string) {
		// Non-leading segments start with their own 2-digit code.
		if code != "" {
			if len(segment) < 2 {
				segment = ""
			} else {
				segment = segment[2:]
			}
		}
		if _, seen := segments[code]; !seen {
			codes = append(codes, code)
		}
		segments[code] = segment
	}

	segmentStart := 0
	end := len(details)
	code := ""
	for i := 0; i < len(details); i++ {
		if details[i] != sep {
			continue
		}
		if i+2 >= len(details) {
			// Dangling separator with no room for a code.
			end = i
			break
		}
		flush(code, details[segmentStart:i])
		code = details[i+1 : i+3]
		segmentStart = i + 1
	}
	if code != "" {
		flush(code, details[segmentStart:end])
	}

	parts := make(map[string][]string)
	for _, c := range codes {
		field, ok := detailKeys[c]
		if !ok {
			continue
		}
		parts[field] = append(parts[field], segments[c])
	}

	result := make(map[string]any, len(detailFields))
	for _, field := range detailFields {
		joined := strings.Join(parts[field], joiner)
		if joined == "" {
			result[field] = nil
		} else {
			result[field] = joined
		}
	}
	return result
}

// parseGVCodes decomposes a purpose field along <4-char-code>+ boundaries.
func parseGVCodes(purpose string) map[string]any {
	result := make(map[string]any, len(gvcKeys))
	for _, field := range gvcKeys {
		result[field] = nil
	}

	segments := make(map[string]string)
	code := ""
	text := strings.Builder{}
	for i := 0; i < len(purpose); i++ {
		if purpose[i] == '+' && i >= 4 {
			if _, known := gvcKeys[purpose[i-4:i]]; known {
				if code != "" {
					s := text.String()
					segments[code] = s[:len(s)-4]
				}
				text.Reset()
				code = purpose[i-4 : i]
				continue
			}
		}
		text.WriteByte(purpose[i])
	}
	segments[code] = text.String()

	for code, value := range segments {
		result[gvcKeys[code]] = value
	}
	return result
}
