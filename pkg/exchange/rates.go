package exchange

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/affanshahid/finny/pkg/money"
)

// RateDefinition is the configuration form of one table entry.
type RateDefinition struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Rate string `yaml:"rate"`
}

// ParseRates validates rate definitions.
func ParseRates(defs []RateDefinition) (map[Pair]decimal.Decimal, error) {
	rates := make(map[Pair]decimal.Decimal, len(defs))
	for i, def := range defs {
		from, err := money.ParseCurrency(def.From)
		if err != nil {
			return nil, fmt.Errorf("exchange rate %d: from: %w", i, err)
		}
		to, err := money.ParseCurrency(def.To)
		if err != nil {
			return nil, fmt.Errorf("exchange rate %d: to: %w", i, err)
		}
		rate, err := decimal.NewFromString(def.Rate)
		if err != nil {
			return nil, fmt.Errorf("exchange rate %d: invalid rate %q: %w", i, def.Rate, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("exchange rate %d: rate must be positive, got %s", i, rate)
		}
		rates[Pair{From: from, To: to}] = rate
	}
	return rates, nil
}
