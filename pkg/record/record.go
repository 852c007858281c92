// Package record defines the inbound Message and the canonical Record
// extracted from it.
package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/affanshahid/finny/pkg/money"
)

// ErrUnknownNature is returned for anything other than "Credit" or "Debit".
var ErrUnknownNature = errors.New("nature not recognized")

// Message is a raw notification as fetched from the message store.
type Message struct {
	ID   int64     `yaml:"id"`
	Text string    `yaml:"text"`
	Time time.Time `yaml:"time"`
	// Sender is the handle the message came from (e.g. "8012").
	Sender string `yaml:"sender"`
}

// Nature tells whether money came in or went out.
type Nature int

const (
	Credit Nature = iota + 1
	Debit
)

// ParseNature matches the literals "Credit" and "Debit" exactly.
func ParseNature(s string) (Nature, error) {
	switch s {
	case "Credit":
		return Credit, nil
	case "Debit":
		return Debit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNature, s)
	}
}

func (n Nature) String() string {
	switch n {
	case Credit:
		return "Credit"
	case Debit:
		return "Debit"
	default:
		return "Unknown"
	}
}

// Record is a transaction extracted from exactly one Message by exactly one
// matcher. Amount is always the unsigned amount as written in the message;
// the sign implied by Nature is applied by exchange.Canonical, nowhere else.
type Record struct {
	MessageID int64
	MatcherID string
	Nature    Nature
	Account   string
	Amount    money.Money
	Source    string
	Time      time.Time
}
