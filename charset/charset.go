// Package charset resolves raw statement bytes into text. Banks deliver
// files in a handful of encodings and rarely declare which, so decoding
// tries a caller-supplied preference followed by a fixed list of common
// candidates.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// fallbackEncodings is tried in order after the caller's preference.
var fallbackEncodings = []string{"utf-8", "cp852", "iso8859-15", "latin1"}

// DecodeError reports that none of the attempted encodings decoded the
// input cleanly.
type DecodeError struct {
	Encodings []string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding failed for encodings %v: %v", e.Encodings, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode converts raw bytes to text. The preferred encoding, when not
// empty, is tried before the fallback list; the first clean decode wins.
func Decode(data []byte, preferred string) (string, error) {
	encodings := make([]string, 0, len(fallbackEncodings)+1)
	if preferred != "" {
		encodings = append(encodings, preferred)
	}
	encodings = append(encodings, fallbackEncodings...)

	var lastErr error
	for _, name := range encodings {
		text, err := decodeAs(data, name)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", &DecodeError{Encodings: encodings, Err: lastErr}
}

func decodeAs(data []byte, name string) (string, error) {
	switch normalizeEncoding(name) {
	case "utf8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		return string(data), nil
	case "cp852":
		return decodeCharmap(data, charmap.CodePage852)
	case "iso88591", "latin1":
		return decodeCharmap(data, charmap.ISO8859_1)
	case "iso885915":
		return decodeCharmap(data, charmap.ISO8859_15)
	case "windows1252", "cp1252":
		return decodeCharmap(data, charmap.Windows1252)
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

func decodeCharmap(data []byte, cm *charmap.Charmap) (string, error) {
	decoded, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding as %s: %w", cm, err)
	}
	return string(decoded), nil
}

func normalizeEncoding(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}
