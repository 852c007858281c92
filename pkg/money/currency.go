// Package money provides an arbitrary-precision monetary amount tagged with an
// ISO-4217 currency code.
package money

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// ErrUnknownCurrency is returned when a code or symbol is not in the ISO-4217 table.
var ErrUnknownCurrency = errors.New("currency not recognized")

// Currency is an upper-case ISO-4217 code such as "PKR" or "USD".
type Currency string

// symbols maps the currency symbols banks put in their alerts to ISO codes.
// Ambiguous symbols resolve to the most common issuer.
var symbols = map[string]Currency{
	"$":    "USD",
	"US$":  "USD",
	"€":    "EUR",
	"£":    "GBP",
	"¥":    "JPY",
	"₹":    "INR",
	"Rs":   "PKR",
	"Rs.":  "PKR",
	"PKR.": "PKR",
}

// ParseCurrency resolves an ISO code (case-insensitive) or a known symbol.
func ParseCurrency(s string) (Currency, error) {
	s = strings.TrimSpace(s)
	if c, ok := symbols[s]; ok {
		return c, nil
	}

	if len(s) != 3 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}

	unit, err := currency.ParseISO(strings.ToUpper(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}

	return Currency(unit.String()), nil
}

// MustParseCurrency is like ParseCurrency but panics on failure.
// Use it only for compile-time constants.
func MustParseCurrency(s string) Currency {
	c, err := ParseCurrency(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Currency) String() string {
	return string(c)
}
