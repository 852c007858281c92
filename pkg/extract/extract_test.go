package extract

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/record"
)

type captures map[string]string

func (c captures) Named(group string) (string, bool) {
	s, ok := c[group]
	return s, ok
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestStringParser(t *testing.T) {
	got, err := String().Parse("  Imtiaz Super Market \t")
	require.NoError(t, err)
	assert.Equal(t, "Imtiaz Super Market", got)
}

func TestCurrencyParser(t *testing.T) {
	got, err := Currency().Parse("USD")
	require.NoError(t, err)
	assert.Equal(t, money.Currency("USD"), got)

	_, err = Currency().Parse("ZZZ")
	var pf *ParseFailure
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, KindCurrency, pf.Kind)
	assert.Equal(t, "ZZZ", pf.Raw)
	assert.ErrorIs(t, err, money.ErrUnknownCurrency)
}

func TestNatureParser(t *testing.T) {
	got, err := Nature().Parse("Credit")
	require.NoError(t, err)
	assert.Equal(t, record.Credit, got)

	_, err = Nature().Parse("credit")
	var pf *ParseFailure
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, KindNature, pf.Kind)
}

func TestDateTimeParser(t *testing.T) {
	karachi := mustLoad(t, "Asia/Karachi")

	tests := []struct {
		name     string
		parser   Parser[time.Time]
		input    string
		expected time.Time
	}{
		{
			name:     "habib metro format",
			parser:   DateTime("02-01-06 15:04", karachi),
			input:    "05-03-23 14:30",
			expected: time.Date(2023, 3, 5, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "js bank format",
			parser:   DateTime("15:04 hrs on 02-01-2006", karachi),
			input:    "09:15 hrs on 01-02-2023",
			expected: time.Date(2023, 2, 1, 4, 15, 0, 0, time.UTC),
		},
		{
			name:     "suffix supplies minutes",
			parser:   DateTimeWithSuffix("02/01/06 15:04", ":00", karachi),
			input:    "14/07/23 18",
			expected: time.Date(2023, 7, 14, 13, 0, 0, 0, time.UTC),
		},
		{
			name:     "explicit offset wins",
			parser:   DateTime(time.RFC3339, karachi),
			input:    "2023-07-14T18:00:00+01:00",
			expected: time.Date(2023, 7, 14, 17, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parser.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s, want %s", got, tt.expected)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDateTimeParser_FormatMismatch(t *testing.T) {
	_, err := DateTime("02-01-06 15:04", time.UTC).Parse("yesterday")
	var pf *ParseFailure
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, KindDateTime, pf.Kind)
	assert.ErrorIs(t, err, ErrInvalidDateTime)
}

func TestDateTimeParser_DaylightSaving(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	p := DateTime("2006-01-02 15:04", ny)

	// 2023-11-05 01:30 happens twice in New York; the EDT occurrence comes first.
	got, err := p.Parse("2023-11-05 01:30")
	require.NoError(t, err)
	assert.True(t, time.Date(2023, 11, 5, 5, 30, 0, 0, time.UTC).Equal(got), "got %s", got)

	// 2023-03-12 02:30 is skipped by the spring-forward jump.
	_, err = p.Parse("2023-03-12 02:30")
	assert.ErrorIs(t, err, ErrNonexistentLocalTime)
}

func TestValueExtract(t *testing.T) {
	c := captures{"amount": " 1,200.00 ", "currency": "USD"}

	fixed, err := Fixed(money.Currency("PKR")).Extract(c)
	require.NoError(t, err)
	assert.Equal(t, money.Currency("PKR"), fixed)

	fromMatch, err := FromMatch("currency", Currency()).Extract(c)
	require.NoError(t, err)
	assert.Equal(t, money.Currency("USD"), fromMatch)

	s, err := FromMatch("amount", String()).Extract(c)
	require.NoError(t, err)
	assert.Equal(t, "1,200.00", s)

	_, err = FromMatch("location", String()).Extract(c)
	assert.ErrorIs(t, err, ErrGroupNotMatched)
}

func TestValueGroup(t *testing.T) {
	g, ok := FromMatch("card", String()).Group()
	assert.True(t, ok)
	assert.Equal(t, "card", g)

	_, ok = Fixed("x").Group()
	assert.False(t, ok)

	var zero Value[string]
	assert.True(t, zero.IsZero())
}
