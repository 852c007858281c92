// Package extract pulls typed values out of a pattern match. A Value is either
// a constant from configuration or the text of a named capture group run
// through one of a closed set of parsers.
package extract

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/record"
)

var (
	ErrInvalidDateTime      = errors.New("invalid date/time")
	ErrNonexistentLocalTime = errors.New("local time does not exist")
)

// Kind identifies a parser in the closed set.
type Kind int

const (
	KindString Kind = iota + 1
	KindCurrency
	KindDateTime
	KindNature
	KindAmount
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindCurrency:
		return "currency"
	case KindDateTime:
		return "datetime"
	case KindNature:
		return "nature"
	case KindAmount:
		return "amount"
	default:
		return "unknown"
	}
}

// ParseFailure is a data error: the captured text could not be turned into a
// value of the requested kind.
type ParseFailure struct {
	Kind   Kind
	Raw    string
	Reason error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("%s parser failed on %q: %v", e.Kind, e.Raw, e.Reason)
}

func (e *ParseFailure) Unwrap() error {
	return e.Reason
}

// Parser converts captured text into T. Parsers can only be built with the
// constructors in this package.
type Parser[T any] struct {
	kind  Kind
	parse func(string) (T, error)
}

// Kind returns the parser's kind.
func (p Parser[T]) Kind() Kind {
	return p.kind
}

// Parse runs the parser. Failures are returned as *ParseFailure.
func (p Parser[T]) Parse(raw string) (T, error) {
	if p.parse == nil {
		panic("extract: zero Parser used")
	}
	v, err := p.parse(raw)
	if err != nil {
		var zero T
		return zero, &ParseFailure{Kind: p.kind, Raw: raw, Reason: err}
	}
	return v, nil
}

// String trims surrounding whitespace. It never fails.
func String() Parser[string] {
	return Parser[string]{
		kind: KindString,
		parse: func(raw string) (string, error) {
			return strings.TrimSpace(raw), nil
		},
	}
}

// Currency looks the text up in the ISO-4217 table.
func Currency() Parser[money.Currency] {
	return Parser[money.Currency]{kind: KindCurrency, parse: money.ParseCurrency}
}

// Nature accepts exactly "Credit" or "Debit".
func Nature() Parser[record.Nature] {
	return Parser[record.Nature]{kind: KindNature, parse: record.ParseNature}
}

// DateTime parses text with a Go reference layout as wall-clock time in loc
// and returns it in UTC. A nil loc means time.Local.
func DateTime(layout string, loc *time.Location) Parser[time.Time] {
	return DateTimeWithSuffix(layout, "", loc)
}

// DateTimeWithSuffix appends suffix to the captured text before parsing, for
// messages that leave out a field the layout needs (a year, seconds).
func DateTimeWithSuffix(layout, suffix string, loc *time.Location) Parser[time.Time] {
	if loc == nil {
		loc = time.Local
	}
	return Parser[time.Time]{
		kind: KindDateTime,
		parse: func(raw string) (time.Time, error) {
			return parseLocal(raw+suffix, layout, loc)
		},
	}
}

func parseLocal(text, layout string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateTime, err)
	}

	// An explicit offset in the text wins over the configured zone.
	if hasZone(layout) {
		return t.UTC(), nil
	}

	return resolveWallClock(t, loc)
}

func hasZone(layout string) bool {
	for _, elem := range []string{"MST", "Z07", "-07"} {
		if strings.Contains(layout, elem) {
			return true
		}
	}
	return false
}

// resolveWallClock interprets the fields of wall (parsed as UTC) as a local
// time in loc. A time in a fall-back overlap resolves to the earlier instant;
// a time inside a spring-forward gap is an error.
func resolveWallClock(wall time.Time, loc *time.Location) (time.Time, error) {
	var offsets []int
	for _, probe := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
		_, off := wall.Add(probe).In(loc).Zone()
		if !slices.Contains(offsets, off) {
			offsets = append(offsets, off)
		}
	}

	var best time.Time
	found := false
	for _, off := range offsets {
		candidate := wall.Add(-time.Duration(off) * time.Second)
		if _, actual := candidate.In(loc).Zone(); actual != off {
			continue
		}
		if !found || candidate.Before(best) {
			best = candidate
			found = true
		}
	}

	if !found {
		return time.Time{}, fmt.Errorf("%w: %s in %s", ErrNonexistentLocalTime, wall.Format("2006-01-02 15:04:05"), loc)
	}
	return best.UTC(), nil
}
