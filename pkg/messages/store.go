// Package messages fetches raw notifications from a message store: the macOS
// Messages database, or a YAML dump of it.
package messages

import (
	"context"
	"slices"
	"time"

	"github.com/affanshahid/finny/pkg/record"
)

// Query selects messages from a set of senders within an inclusive time range.
type Query struct {
	Contacts []string
	Start    time.Time
	End      time.Time
}

func (q Query) matches(m record.Message) bool {
	if !slices.Contains(q.Contacts, m.Sender) {
		return false
	}
	return !m.Time.Before(q.Start) && !m.Time.After(q.End)
}

// Store is a source of messages. Results are ordered by time.
type Store interface {
	Fetch(ctx context.Context, q Query) ([]record.Message, error)
	Close() error
}
