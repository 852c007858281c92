package cmd

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/affanshahid/finny/pkg/exchange"
	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/process"
	"github.com/affanshahid/finny/pkg/record"
)

const timeLayout = "2006-01-02 15:04"

// writeTransactions lists records with their signed amount in the reporting
// currency, followed by the grand total.
func writeTransactions(w io.Writer, records []record.Record, conv *exchange.Converter, loc *time.Location, showMatcher bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "TIME\tSOURCE\tACCOUNT\tNATURE\tAMOUNT"
	if showMatcher {
		header += "\tMATCHER"
	}
	fmt.Fprintln(tw, header)

	for _, r := range records {
		signed, err := conv.Signed(r)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", r.Time.In(loc).Format(timeLayout), r.Source, r.Account, r.Nature, signed)
		if showMatcher {
			line += "\t" + r.MatcherID
		}
		fmt.Fprintln(tw, line)
	}

	total, err := process.Total(records, conv)
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\n", total)

	return tw.Flush()
}

// writeTotals lists the total of every source, most spent first.
func writeTotals(w io.Writer, records []record.Record, conv *exchange.Converter) error {
	rows, err := process.SortedTotals(records, conv)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tTOTAL")

	grand := money.Zero(conv.Target())
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Source, row.Total)
		grand = grand.Add(row.Total)
	}
	fmt.Fprintf(tw, "TOTAL\t%s\n", grand)

	return tw.Flush()
}

// writeSubscriptions lists detected subscriptions in the reporting currency,
// most expensive first.
func writeSubscriptions(w io.Writer, records []record.Record, conv *exchange.Converter, loc *time.Location) error {
	type row struct {
		sub    process.Subscription
		amount money.Money
	}

	subs := process.DetectSubscriptions(records, loc)
	rows := make([]row, 0, len(subs))
	for _, s := range subs {
		m, err := conv.Normalize(s.Amount)
		if err != nil {
			return err
		}
		rows = append(rows, row{sub: s, amount: exchange.Canonical(s.Nature, m)})
	}
	slices.SortFunc(rows, func(a, b row) int {
		if c := a.amount.Cmp(b.amount); c != 0 {
			return c
		}
		return cmp.Compare(a.sub.Source, b.sub.Source)
	})

	total, err := process.SubscriptionTotal(subs, conv)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tDAY\tAMOUNT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.sub.Source, r.sub.ChargeDay, r.amount)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%s\n", total)

	return tw.Flush()
}

// writeLookup prints the raw message behind every record.
func writeLookup(w io.Writer, records []record.Record, msgs map[int64]record.Message, loc *time.Location) error {
	for _, r := range records {
		msg, ok := msgs[r.MessageID]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%d] %s %s (%s)\n%s\n\n", msg.ID, msg.Time.In(loc).Format(timeLayout), msg.Sender, r.MatcherID, msg.Text); err != nil {
			return err
		}
	}
	return nil
}
