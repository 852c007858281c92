package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/affanshahid/finny/pkg/exchange"
	"github.com/affanshahid/finny/pkg/ledger"
	"github.com/affanshahid/finny/pkg/matcher"
)

// MatcherFile is the YAML file holding matchers and exchange rates.
type MatcherFile struct {
	// Currency overrides FINNY_CURRENCY when set.
	Currency string `yaml:"currency"`
	// Timezone is the zone of times that carry no offset. It overrides FINNY_TIMEZONE.
	Timezone      string                    `yaml:"timezone"`
	ExchangeRates []exchange.RateDefinition `yaml:"exchange_rates"`
	Matchers      []matcher.Definition      `yaml:"matchers"`
	// Ledger names Beancount accounts for `transactions --beancount`.
	Ledger ledger.Mapping `yaml:"ledger"`
}

// LoadMatcherFile reads and decodes a matcher file. Unknown keys are errors.
func LoadMatcherFile(path string) (*MatcherFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return DecodeMatcherFile(data)
}

// DecodeMatcherFile decodes a matcher file from memory.
func DecodeMatcherFile(data []byte) (*MatcherFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f MatcherFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(f.Matchers) == 0 {
		return nil, fmt.Errorf("%w: no matchers defined", matcher.ErrConfiguration)
	}
	if err := f.Ledger.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}
