package mt940

import (
	"fmt"
	"io"
	"os"

	"github.com/wolph/mt940/charset"
	"github.com/wolph/mt940/model"
)

// ParseFile reads, decodes and parses a statement file. The encoding set
// via WithEncoding is tried first, then the common fallbacks.
func ParseFile(path string, opts ...Option) (*model.Transactions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement file: %w", err)
	}
	return parseBytes(data, opts...)
}

// ParseReader reads, decodes and parses a statement from r.
func ParseReader(r io.Reader, opts ...Option) (*model.Transactions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return parseBytes(data, opts...)
}

func parseBytes(data []byte, opts ...Option) (*model.Transactions, error) {
	p := New(opts...)
	text, err := charset.Decode(data, p.encoding)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}
