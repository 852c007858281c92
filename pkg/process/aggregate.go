package process

import (
	"cmp"
	"slices"

	"github.com/affanshahid/finny/pkg/exchange"
	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/record"
)

// Group holds the records of one source in input order.
type Group struct {
	Source  string
	Records []record.Record
}

// GroupBySource groups records by source. Groups are ordered by the first
// appearance of their source; records keep their relative order.
func GroupBySource(records []record.Record) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		i, ok := index[r.Source]
		if !ok {
			i = len(groups)
			index[r.Source] = i
			groups = append(groups, Group{Source: r.Source})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Total sums the signed, normalized amounts of records. An empty input sums
// to zero in the converter's currency.
func Total(records []record.Record, conv *exchange.Converter) (money.Money, error) {
	sum := money.Zero(conv.Target())
	for _, r := range records {
		m, err := conv.Signed(r)
		if err != nil {
			return money.Money{}, err
		}
		sum = sum.Add(m)
	}
	return sum, nil
}

// GroupTotals returns the total of every source.
func GroupTotals(records []record.Record, conv *exchange.Converter) (map[string]money.Money, error) {
	totals := make(map[string]money.Money)
	for _, g := range GroupBySource(records) {
		t, err := Total(g.Records, conv)
		if err != nil {
			return nil, err
		}
		totals[g.Source] = t
	}
	return totals, nil
}

// SourceTotal is one row of SortedTotals.
type SourceTotal struct {
	Source string
	Total  money.Money
}

// SortedTotals returns the group totals ordered by amount ascending, so the
// largest spend comes first. Ties are ordered by source.
func SortedTotals(records []record.Record, conv *exchange.Converter) ([]SourceTotal, error) {
	totals, err := GroupTotals(records, conv)
	if err != nil {
		return nil, err
	}

	rows := make([]SourceTotal, 0, len(totals))
	for source, total := range totals {
		rows = append(rows, SourceTotal{Source: source, Total: total})
	}
	slices.SortFunc(rows, func(a, b SourceTotal) int {
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})
	return rows, nil
}
