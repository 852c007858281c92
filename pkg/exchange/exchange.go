// Package exchange converts money into a single reporting currency using a
// static rate table, and applies a record's sign.
package exchange

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/record"
)

// ErrMissingRate is wrapped by MissingRateError.
var ErrMissingRate = errors.New("missing exchange rate")

// MissingRateError names a currency pair the table cannot convert.
type MissingRateError struct {
	From money.Currency
	To   money.Currency
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("%v: %s -> %s", ErrMissingRate, e.From, e.To)
}

func (e *MissingRateError) Unwrap() error {
	return ErrMissingRate
}

// Pair is an ordered currency pair.
type Pair struct {
	From money.Currency
	To   money.Currency
}

// Table maps currency pairs to multipliers. It is read-only once built and
// safe to share between goroutines.
type Table struct {
	rates map[Pair]decimal.Decimal
}

// NewTable builds a table. Later entries for the same pair win.
func NewTable(rates map[Pair]decimal.Decimal) *Table {
	t := &Table{rates: make(map[Pair]decimal.Decimal, len(rates))}
	for p, r := range rates {
		t.rates[p] = r
	}
	return t
}

// DefaultTable returns the built-in rates.
func DefaultTable() *Table {
	return NewTable(map[Pair]decimal.Decimal{
		{From: "USD", To: "PKR"}: decimal.NewFromInt(237),
		{From: "EUR", To: "PKR"}: decimal.NewFromInt(258),
		{From: "GBP", To: "PKR"}: decimal.NewFromInt(301),
		{From: "AED", To: "PKR"}: decimal.RequireFromString("64.5"),
		{From: "SAR", To: "PKR"}: decimal.RequireFromString("63.2"),
	})
}

// With returns a copy of t with rates added or replaced.
func (t *Table) With(rates map[Pair]decimal.Decimal) *Table {
	merged := NewTable(t.rates)
	for p, r := range rates {
		merged.rates[p] = r
	}
	return merged
}

// Rate returns the multiplier for a pair. The lookup is strict: the reverse
// pair is never inverted.
func (t *Table) Rate(from, to money.Currency) (decimal.Decimal, bool) {
	r, ok := t.rates[Pair{From: from, To: to}]
	return r, ok
}

// Len returns the number of pairs in the table.
func (t *Table) Len() int {
	return len(t.rates)
}

// Normalize converts m into target. Money already in target is returned
// unchanged. No rounding is applied.
func (t *Table) Normalize(m money.Money, target money.Currency) (money.Money, error) {
	if m.Currency() == target {
		return m, nil
	}
	rate, ok := t.Rate(m.Currency(), target)
	if !ok {
		return money.Money{}, &MissingRateError{From: m.Currency(), To: target}
	}
	return money.New(m.Amount().Mul(rate), target), nil
}

// Canonical applies the sign of a nature: credits are positive, debits are
// negative. Record amounts are stored unsigned and this is the only place the
// sign is applied.
func Canonical(n record.Nature, m money.Money) money.Money {
	if n == record.Debit {
		return m.Neg()
	}
	return m
}

// Converter normalizes records into one reporting currency.
type Converter struct {
	table  *Table
	target money.Currency
}

// NewConverter returns a converter into target.
func NewConverter(table *Table, target money.Currency) *Converter {
	return &Converter{table: table, target: target}
}

// Target returns the reporting currency.
func (c *Converter) Target() money.Currency {
	return c.target
}

// Normalize converts m into the reporting currency.
func (c *Converter) Normalize(m money.Money) (money.Money, error) {
	return c.table.Normalize(m, c.target)
}

// Signed returns the record's amount in the reporting currency with its
// nature's sign applied.
func (c *Converter) Signed(rec record.Record) (money.Money, error) {
	m, err := c.Normalize(rec.Amount)
	if err != nil {
		return money.Money{}, fmt.Errorf("record from message %d: %w", rec.MessageID, err)
	}
	return Canonical(rec.Nature, m), nil
}
