// Package ledger renders records as Beancount transactions.
package ledger

import "github.com/affanshahid/finny/pkg/money"

// Transaction represents a Beancount transaction.
type Transaction struct {
	Date      string            // YYYY-MM-DD
	Payee     string            // Payee name (optional)
	Narration string            // Transaction description
	Tags      []string          // Tags (e.g., ["hbl-debit"])
	Metadata  map[string]string // Metadata key-value pairs
	Postings  []Posting         // Transaction postings
}

// Posting represents a posting in a Beancount transaction.
type Posting struct {
	Account string      // Account name (e.g., "Assets:Card")
	Amount  money.Money // Signed amount
	Comment string      // Posting comment (optional)
}
