package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wolph/mt940"
	"github.com/wolph/mt940/processor"
	"github.com/wolph/mt940/tag"
)

// Config represents a mt940.yaml conversion profile: which bank dialect to
// apply and how to decode the input.
type Config struct {
	Encoding string        `yaml:"encoding,omitempty"`
	Dialect  DialectConfig `yaml:"dialect"`
}

// DialectConfig selects bank-specific parsing behavior.
type DialectConfig struct {
	// ASNB switches the statement line to ASN Bank's wider grammar.
	ASNB bool `yaml:"asnb"`
	// MBank enables the mBank Collect detail extractors.
	MBank bool `yaml:"mbank"`
	// DetailsWithSpace joins detail sub-segments with spaces.
	DetailsWithSpace bool `yaml:"details_with_space"`
	// Currency forces a currency on statement lines that carry none.
	Currency string `yaml:"currency,omitempty"`
}

// Load reads a mt940.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with no dialect adjustments.
func Default() *Config {
	return &Config{}
}

// Options translates the profile into parser options.
func (c *Config) Options() []mt940.Option {
	var opts []mt940.Option

	if c.Encoding != "" {
		opts = append(opts, mt940.WithEncoding(c.Encoding))
	}
	if c.Dialect.ASNB {
		opts = append(opts, mt940.WithTags(map[string]*tag.Tag{
			"61": tag.StatementASNB(),
		}))
	}

	overrides := processor.NewPipeline()
	if c.Dialect.Currency != "" {
		overrides.Pre["statement"] = []processor.Pre{
			processor.DateFixup,
			processor.AddCurrency(c.Dialect.Currency, false),
		}
	}
	if c.Dialect.MBank {
		overrides.Post["transaction_details"] = []processor.Post{
			processor.MBankSetTransactionCode,
			processor.MBankSetIphID,
			processor.MBankSetTNR,
		}
	} else if c.Dialect.DetailsWithSpace {
		overrides.Post["transaction_details"] = []processor.Post{
			processor.TransactionDetailsWithSpace,
		}
	}
	if len(overrides.Pre) > 0 || len(overrides.Post) > 0 {
		opts = append(opts, mt940.WithProcessors(overrides))
	}

	return opts
}
