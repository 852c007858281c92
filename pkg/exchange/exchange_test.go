package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/record"
)

func TestNormalize(t *testing.T) {
	table := NewTable(map[Pair]decimal.Decimal{
		{From: "USD", To: "PKR"}: decimal.NewFromInt(237),
		{From: "EUR", To: "PKR"}: decimal.RequireFromString("301.125"),
	})

	tests := []struct {
		name   string
		in     money.Money
		target money.Currency
		want   money.Money
	}{
		{name: "usd to pkr", in: money.MustParse("10", "USD"), target: "PKR", want: money.MustParse("2370", "PKR")},
		{name: "same currency unchanged", in: money.MustParse("12.345", "PKR"), target: "PKR", want: money.MustParse("12.345", "PKR")},
		{name: "no rounding", in: money.MustParse("0.01", "EUR"), target: "PKR", want: money.MustParse("3.01125", "PKR")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Normalize(tt.in, tt.target)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestNormalizeMissingRate(t *testing.T) {
	table := NewTable(map[Pair]decimal.Decimal{
		{From: "USD", To: "PKR"}: decimal.NewFromInt(237),
	})

	_, err := table.Normalize(money.MustParse("1", "PKR"), "USD")
	require.ErrorIs(t, err, ErrMissingRate)

	var missing *MissingRateError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, money.Currency("PKR"), missing.From)
	assert.Equal(t, money.Currency("USD"), missing.To)
	assert.Contains(t, err.Error(), "PKR -> USD")
}

func TestSigned(t *testing.T) {
	conv := NewConverter(DefaultTable(), "USD")

	tests := []struct {
		name   string
		nature record.Nature
		want   string
	}{
		{name: "debit is negative", nature: record.Debit, want: "-50"},
		{name: "credit is positive", nature: record.Credit, want: "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record.Record{Nature: tt.nature, Amount: money.MustParse("50", "USD")}
			got, err := conv.Signed(rec)
			require.NoError(t, err)
			assert.True(t, money.MustParse(tt.want, "USD").Equal(got), "got %s", got)
			assert.True(t, money.MustParse("50", "USD").Equal(rec.Amount))
		})
	}
}

func TestSignedMissingRate(t *testing.T) {
	conv := NewConverter(NewTable(nil), "PKR")
	_, err := conv.Signed(record.Record{MessageID: 9, Nature: record.Debit, Amount: money.MustParse("5", "JPY")})
	assert.ErrorIs(t, err, ErrMissingRate)
}

func TestWithDoesNotMutate(t *testing.T) {
	base := DefaultTable()
	n := base.Len()

	merged := base.With(map[Pair]decimal.Decimal{
		{From: "USD", To: "PKR"}: decimal.NewFromInt(280),
		{From: "JPY", To: "PKR"}: decimal.RequireFromString("1.9"),
	})

	assert.Equal(t, n, base.Len())
	assert.Equal(t, n+1, merged.Len())

	r, ok := merged.Rate("USD", "PKR")
	require.True(t, ok)
	assert.True(t, r.Equal(decimal.NewFromInt(280)))

	r, ok = base.Rate("USD", "PKR")
	require.True(t, ok)
	assert.True(t, r.Equal(decimal.NewFromInt(237)))
}

func TestParseRates(t *testing.T) {
	tests := []struct {
		name    string
		defs    []RateDefinition
		wantErr bool
	}{
		{name: "valid", defs: []RateDefinition{{From: "usd", To: "PKR", Rate: "237.5"}}},
		{name: "symbol", defs: []RateDefinition{{From: "$", To: "Rs", Rate: "237"}}},
		{name: "unknown currency", defs: []RateDefinition{{From: "ZZZ", To: "PKR", Rate: "1"}}, wantErr: true},
		{name: "bad rate", defs: []RateDefinition{{From: "USD", To: "PKR", Rate: "abc"}}, wantErr: true},
		{name: "zero rate", defs: []RateDefinition{{From: "USD", To: "PKR", Rate: "0"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates, err := ParseRates(tt.defs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, rates, Pair{From: "USD", To: "PKR"})
		})
	}
}
