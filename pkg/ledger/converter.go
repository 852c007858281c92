package ledger

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/affanshahid/finny/pkg/exchange"
	"github.com/affanshahid/finny/pkg/record"
)

// Converter converts records to Beancount transactions. Amounts keep their
// original currency.
type Converter struct {
	loc          *time.Location
	mapping      Mapping
	accountWidth int
}

// NewConverter creates a Converter that dates transactions in loc and names
// accounts through mapping.
func NewConverter(loc *time.Location, mapping Mapping) *Converter {
	if loc == nil {
		loc = time.UTC
	}
	return &Converter{
		loc:          loc,
		mapping:      mapping,
		accountWidth: 60,
	}
}

// ConvertRecord converts a record to a balanced two-posting transaction:
// the account it hit, and an expense or income account named after the source.
func (c *Converter) ConvertRecord(rec record.Record) Transaction {
	signed := exchange.Canonical(rec.Nature, rec.Amount)

	return Transaction{
		Date:      rec.Time.In(c.loc).Format(time.DateOnly),
		Payee:     rec.Source,
		Narration: fmt.Sprintf("%s via %s", rec.Nature, rec.Account),
		Tags:      []string{sanitizeTag(rec.MatcherID)},
		Metadata: map[string]string{
			"message_id": fmt.Sprintf("%d", rec.MessageID),
			"time":       rec.Time.In(c.loc).Format(time.RFC3339),
		},
		Postings: []Posting{
			{Account: c.account(rec), Amount: signed},
			{Account: c.counterAccount(rec), Amount: signed.Neg()},
		},
	}
}

func (c *Converter) account(rec record.Record) string {
	if acc, ok := c.mapping.GetAccount(rec.Account); ok {
		return acc
	}
	return "Assets:" + sanitizeAccountName(rec.Account)
}

func (c *Converter) counterAccount(rec record.Record) string {
	if acc, ok := c.mapping.GetSourceAccount(rec.Source); ok {
		return acc
	}
	if rec.Nature == record.Credit {
		return "Income:" + sanitizeAccountName(rec.Source)
	}
	return "Expenses:" + sanitizeAccountName(rec.Source)
}

// FormatTransaction formats a Beancount transaction as a string.
func (c *Converter) FormatTransaction(txn Transaction) string {
	var sb strings.Builder

	// Transaction header
	sb.WriteString(txn.Date)
	sb.WriteString(" *")
	if txn.Payee != "" {
		sb.WriteString(fmt.Sprintf(" %s", quote(txn.Payee)))
	}
	sb.WriteString(fmt.Sprintf(" %s", quote(txn.Narration)))
	for _, tag := range txn.Tags {
		if tag != "" {
			sb.WriteString(" #" + tag)
		}
	}
	sb.WriteString("\n")

	keys := make([]string, 0, len(txn.Metadata))
	for k := range txn.Metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", k, quote(txn.Metadata[k])))
	}

	// Postings
	for _, posting := range txn.Postings {
		sb.WriteString("  ")
		sb.WriteString(posting.Account)

		// Right-align amount (typical Beancount style)
		spaces := max(1, c.accountWidth-len(posting.Account))
		sb.WriteString(strings.Repeat(" ", spaces))
		sb.WriteString(fmt.Sprintf("%s %s", posting.Amount.Amount().StringFixed(2), posting.Amount.Currency()))

		if posting.Comment != "" {
			sb.WriteString(fmt.Sprintf(" ; %s", posting.Comment))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// Write renders records to w, separated by blank lines.
func (c *Converter) Write(w io.Writer, records []record.Record) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, c.FormatTransaction(c.ConvertRecord(rec))); err != nil {
			return fmt.Errorf("failed to write transaction: %w", err)
		}
	}
	return nil
}

// sanitizeAccountName turns free text into a Beancount account component,
// e.g. "daraz.pk online" becomes "DarazPkOnline".
func sanitizeAccountName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "Unknown"
	}

	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(title.String(w))
	}

	out := sb.String()
	if first := []rune(out)[0]; !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		return "X" + out
	}
	return out
}

func sanitizeTag(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || r == '/' {
			return r
		}
		return '-'
	}, s)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
