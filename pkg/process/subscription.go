package process

import (
	"slices"
	"time"

	"github.com/affanshahid/finny/pkg/exchange"
	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/record"
)

// Subscription is a recurring charge from one source.
type Subscription struct {
	Source    string
	Nature    record.Nature
	Amount    money.Money
	ChargeDay int
}

// DetectSubscriptions reports every source whose records recur on the same
// day of the month with the same amount. Days are read in loc; nil means UTC.
//
// A group qualifies when it has at least two records and every consecutive
// pair (by time) falls on different dates, on the same day of the month, with
// an equal amount and nature. A single failing pair disqualifies the group.
// This is a heuristic: a charge that moves from the 31st to the 30th when a
// month is short breaks the chain.
func DetectSubscriptions(records []record.Record, loc *time.Location) []Subscription {
	if loc == nil {
		loc = time.UTC
	}

	var subs []Subscription
	for _, g := range GroupBySource(records) {
		if len(g.Records) < 2 {
			continue
		}

		sorted := slices.Clone(g.Records)
		slices.SortStableFunc(sorted, func(a, b record.Record) int {
			return a.Time.Compare(b.Time)
		})

		if !recurring(sorted, loc) {
			continue
		}

		first := sorted[0]
		subs = append(subs, Subscription{
			Source:    g.Source,
			Nature:    first.Nature,
			Amount:    first.Amount,
			ChargeDay: first.Time.In(loc).Day(),
		})
	}
	return subs
}

func recurring(sorted []record.Record, loc *time.Location) bool {
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		py, pm, pd := prev.Time.In(loc).Date()
		cy, cm, cd := cur.Time.In(loc).Date()

		if py == cy && pm == cm && pd == cd {
			return false
		}
		if pd != cd {
			return false
		}
		if prev.Nature != cur.Nature || !prev.Amount.Equal(cur.Amount) {
			return false
		}
	}
	return true
}

// SubscriptionTotal sums the signed, normalized amounts of subs.
func SubscriptionTotal(subs []Subscription, conv *exchange.Converter) (money.Money, error) {
	sum := money.Zero(conv.Target())
	for _, s := range subs {
		m, err := conv.Normalize(s.Amount)
		if err != nil {
			return money.Money{}, err
		}
		sum = sum.Add(exchange.Canonical(s.Nature, m))
	}
	return sum, nil
}
