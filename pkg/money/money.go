package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount string is not a decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in a single currency. The zero value has no currency and
// is only useful as a placeholder.
//
// Arithmetic and ordering between different currencies is a programming error
// and panics; convert through the exchange package first.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New returns amount tagged with c.
func New(amount decimal.Decimal, c Currency) Money {
	return Money{amount: amount, currency: c}
}

// Zero returns a zero amount in c.
func Zero(c Currency) Money {
	return Money{amount: decimal.Zero, currency: c}
}

// Parse reads amounts as they appear in bank alerts, e.g. "1,250.00" or
// "2 500". Thousands separators and inner spaces are ignored.
func Parse(raw string, c Currency) (Money, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return New(d, c), nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(raw string, c Currency) Money {
	m, err := Parse(raw, c)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO code.
func (m Money) Currency() Currency {
	return m.currency
}

// Add returns m + o. Both must share a currency.
func (m Money) Add(o Money) Money {
	m.mustMatch(o, "add")
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Cmp compares amounts of the same currency: -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	m.mustMatch(o, "compare")
	return m.amount.Cmp(o.amount)
}

// Equal reports whether both values carry the same currency and numerically
// equal amounts (20 equals 20.00). Unlike Cmp it never panics: values in
// different currencies are simply not equal.
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String formats the amount with two decimal places, e.g. "PKR -1250.00".
// This is the only place rounding happens.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(2))
}

func (m Money) mustMatch(o Money, op string) {
	if m.currency != o.currency {
		panic(fmt.Sprintf("money: cannot %s %s and %s without conversion", op, m.currency, o.currency))
	}
}
