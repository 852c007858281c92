package messages

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/affanshahid/finny/pkg/record"
)

// appleEpoch is the zero of message.date: 2001-01-01T00:00:00Z.
var appleEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

const fetchQuery = `
	SELECT m.ROWID, m.text, m.date, h.id
	FROM handle h
	JOIN message m ON h.ROWID = m.handle_id
	WHERE h.id IN (%s)
		AND m.date BETWEEN ? AND ?
		AND m.text IS NOT NULL
	ORDER BY m.date, m.ROWID
`

// SQLiteStore reads the Messages database (chat.db). It never writes to it.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens a chat.db read-only.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat message database: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?mode=ro&_query_only=true", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open message database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping message database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Fetch returns the messages from q.Contacts sent between q.Start and q.End.
// Messages without text (attachments, reactions) are skipped.
func (s *SQLiteStore) Fetch(ctx context.Context, q Query) ([]record.Message, error) {
	if len(q.Contacts) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(q.Contacts)), ",")
	args := make([]any, 0, len(q.Contacts)+2)
	for _, c := range q.Contacts {
		args = append(args, c)
	}
	args = append(args, toAppleTime(q.Start), toAppleTime(q.End))

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(fetchQuery, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []record.Message
	for rows.Next() {
		var (
			m    record.Message
			date int64
		)
		if err := rows.Scan(&m.ID, &m.Text, &date, &m.Sender); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Time = fromAppleTime(date)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return msgs, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// toAppleTime converts t to nanoseconds since appleEpoch.
func toAppleTime(t time.Time) int64 {
	return t.Sub(appleEpoch).Nanoseconds()
}

func fromAppleTime(ns int64) time.Time {
	return appleEpoch.Add(time.Duration(ns)).UTC()
}
