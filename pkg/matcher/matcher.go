// Package matcher turns notification text into records using an ordered list
// of regular expressions, each paired with a plan for extracting fields from
// its named groups.
package matcher

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/affanshahid/finny/pkg/extract"
	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/record"
)

var (
	// ErrConfiguration marks errors caused by a broken matcher definition.
	ErrConfiguration = errors.New("invalid matcher configuration")
	// ErrSignedAmount means a captured amount carried a minus sign. Direction
	// comes from the nature field only.
	ErrSignedAmount = errors.New("amount must not be negative")
)

// ConfigError describes a broken matcher. It is always fatal.
type ConfigError struct {
	MatcherID string
	Field     string
	Reason    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("matcher %q: %v", e.MatcherID, e.Reason)
	}
	return fmt.Sprintf("matcher %q: field %s: %v", e.MatcherID, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfiguration, e.Reason}
}

// Fields is the extraction plan of a matcher.
type Fields struct {
	Nature   extract.Value[record.Nature]
	Account  extract.Value[string]
	Amount   extract.Value[string]
	Currency extract.Value[money.Currency]
	Source   extract.Value[string]
	Time     extract.Value[time.Time]
}

// Matcher is a named pattern plus its extraction plan. It is immutable once
// built and safe for concurrent use.
type Matcher struct {
	ID      string
	Pattern *regexp.Regexp
	Fields  Fields
}

// New compiles pattern and checks that every group the plan reads exists in it.
func New(id, pattern string, fields Fields) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ConfigError{MatcherID: id, Field: "pattern", Reason: err}
	}

	m := &Matcher{ID: id, Pattern: re, Fields: fields}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

type fieldInfo struct {
	name  string
	group string
	fixed bool
	unset bool
}

func (m *Matcher) fieldInfos() []fieldInfo {
	info := func(name string, group string, fromMatch, unset bool) fieldInfo {
		return fieldInfo{name: name, group: group, fixed: !fromMatch, unset: unset}
	}
	f := m.Fields
	var out []fieldInfo
	g, ok := f.Nature.Group()
	out = append(out, info("nature", g, ok, f.Nature.IsZero()))
	g, ok = f.Account.Group()
	out = append(out, info("account", g, ok, f.Account.IsZero()))
	g, ok = f.Amount.Group()
	out = append(out, info("amount", g, ok, f.Amount.IsZero()))
	g, ok = f.Currency.Group()
	out = append(out, info("currency", g, ok, f.Currency.IsZero()))
	g, ok = f.Source.Group()
	out = append(out, info("source", g, ok, f.Source.IsZero()))
	g, ok = f.Time.Group()
	out = append(out, info("time", g, ok, f.Time.IsZero()))
	return out
}

func (m *Matcher) validate() error {
	if m.ID == "" {
		return &ConfigError{Reason: errors.New("empty id")}
	}
	for _, fi := range m.fieldInfos() {
		if fi.unset {
			return &ConfigError{MatcherID: m.ID, Field: fi.name, Reason: errors.New("not configured")}
		}
		if fi.fixed {
			continue
		}
		if m.Pattern.SubexpIndex(fi.group) < 0 {
			return &ConfigError{
				MatcherID: m.ID,
				Field:     fi.name,
				Reason:    fmt.Errorf("group %q not in pattern", fi.group),
			}
		}
	}
	return nil
}

// match exposes one regexp match as extract.Captures.
type match struct {
	re   *regexp.Regexp
	text string
	loc  []int
}

func (c match) Named(group string) (string, bool) {
	i := c.re.SubexpIndex(group)
	if i < 0 || c.loc[2*i] < 0 {
		return "", false
	}
	return c.text[c.loc[2*i]:c.loc[2*i+1]], true
}

// capture returns the match of the pattern in text, if any.
func (m *Matcher) capture(text string) (match, bool) {
	loc := m.Pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return match{}, false
	}
	return match{re: m.Pattern, text: text, loc: loc}, true
}

// checkGroups reports the first group read by the plan that did not take part
// in the match. It runs before any parser so a data error in one field cannot
// hide a broken definition.
func (m *Matcher) checkGroups(c extract.Captures) error {
	for _, fi := range m.fieldInfos() {
		if fi.fixed {
			continue
		}
		if _, ok := c.Named(fi.group); !ok {
			return &ConfigError{
				MatcherID: m.ID,
				Field:     fi.name,
				Reason:    fmt.Errorf("%w: %q", extract.ErrGroupNotMatched, fi.group),
			}
		}
	}
	return nil
}

// build extracts a record from a match. Errors wrapping
// extract.ErrGroupNotMatched are configuration errors; everything else is a
// data error for this message only.
func (m *Matcher) build(msg record.Message, c extract.Captures) (record.Record, error) {
	f := m.Fields

	nature, err := f.Nature.Extract(c)
	if err != nil {
		return record.Record{}, fmt.Errorf("nature: %w", err)
	}
	account, err := f.Account.Extract(c)
	if err != nil {
		return record.Record{}, fmt.Errorf("account: %w", err)
	}
	amountText, err := f.Amount.Extract(c)
	if err != nil {
		return record.Record{}, fmt.Errorf("amount: %w", err)
	}
	currency, err := f.Currency.Extract(c)
	if err != nil {
		return record.Record{}, fmt.Errorf("currency: %w", err)
	}
	amount, err := parseAmount(amountText, currency)
	if err != nil {
		return record.Record{}, fmt.Errorf("amount: %w", err)
	}
	source, err := f.Source.Extract(c)
	if err != nil {
		return record.Record{}, fmt.Errorf("source: %w", err)
	}
	at, err := f.Time.Extract(c)
	if err != nil {
		return record.Record{}, fmt.Errorf("time: %w", err)
	}

	return record.Record{
		MessageID: msg.ID,
		MatcherID: m.ID,
		Nature:    nature,
		Account:   account,
		Amount:    amount,
		Source:    source,
		Time:      at,
	}, nil
}

// parseAmount reads an unsigned amount. Failures have the same shape as the
// other field parsers.
func parseAmount(raw string, c money.Currency) (money.Money, error) {
	amount, err := money.Parse(raw, c)
	if err != nil {
		return money.Money{}, &extract.ParseFailure{Kind: extract.KindAmount, Raw: raw, Reason: err}
	}
	if amount.IsNegative() {
		return money.Money{}, &extract.ParseFailure{Kind: extract.KindAmount, Raw: raw, Reason: ErrSignedAmount}
	}
	return amount, nil
}
