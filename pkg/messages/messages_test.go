package messages

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affanshahid/finny/pkg/record"
)

// chatSchema is the subset of the Messages schema the store reads.
const chatSchema = `
CREATE TABLE handle (
    ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL
);
CREATE TABLE message (
    ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT,
    handle_id INTEGER DEFAULT 0,
    date INTEGER
);
`

func at(day, hour int) time.Time {
	return time.Date(2023, 3, day, hour, 0, 0, 0, time.UTC)
}

func createChatDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chat.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(chatSchema)
	require.NoError(t, err)

	for _, h := range []string{"8012", "9355", "+923001234567"} {
		_, err := db.Exec(`INSERT INTO handle (id) VALUES (?)`, h)
		require.NoError(t, err)
	}

	rows := []struct {
		text   any
		handle int
		time   time.Time
	}{
		{"Rs.500 spent at Daraz", 1, at(2, 10)},
		{"PKR 20 charged by Gym", 2, at(5, 9)},
		{"hey, dinner tonight?", 3, at(5, 20)},
		{nil, 1, at(6, 11)},
		{"Rs.100 spent at Cafe", 1, at(3, 8)},
		{"Rs.900 spent at Hardware", 1, at(25, 8)},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO message (text, handle_id, date) VALUES (?, ?, ?)`, r.text, r.handle, toAppleTime(r.time))
		require.NoError(t, err)
	}

	return path
}

func texts(msgs []record.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func TestSQLiteStoreFetch(t *testing.T) {
	store, err := OpenSQLite(createChatDB(t))
	require.NoError(t, err)
	defer store.Close()

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "contacts and range",
			query: Query{Contacts: []string{"8012", "9355"}, Start: at(1, 0), End: at(20, 0)},
			want:  []string{"Rs.500 spent at Daraz", "Rs.100 spent at Cafe", "PKR 20 charged by Gym"},
		},
		{
			name:  "single contact",
			query: Query{Contacts: []string{"9355"}, Start: at(1, 0), End: at(31, 0)},
			want:  []string{"PKR 20 charged by Gym"},
		},
		{
			name:  "range is inclusive",
			query: Query{Contacts: []string{"8012"}, Start: at(3, 8), End: at(25, 8)},
			want:  []string{"Rs.100 spent at Cafe", "Rs.900 spent at Hardware"},
		},
		{
			name:  "no contacts",
			query: Query{Start: at(1, 0), End: at(31, 0)},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, err := store.Fetch(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, texts(msgs))
		})
	}
}

func TestSQLiteStoreFields(t *testing.T) {
	store, err := OpenSQLite(createChatDB(t))
	require.NoError(t, err)
	defer store.Close()

	msgs, err := store.Fetch(context.Background(), Query{Contacts: []string{"9355"}, Start: at(1, 0), End: at(31, 0)})
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	assert.Equal(t, int64(2), msgs[0].ID)
	assert.Equal(t, "9355", msgs[0].Sender)
	assert.True(t, at(5, 9).Equal(msgs[0].Time))
}

func TestSQLiteStoreIsReadOnly(t *testing.T) {
	path := createChatDB(t)
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`DELETE FROM message`)
	assert.Error(t, err)
}

func TestOpenSQLiteMissingFile(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAppleTime(t *testing.T) {
	assert.Equal(t, int64(0), toAppleTime(appleEpoch))
	// 978307200 seconds separate the Unix and Apple epochs.
	assert.Equal(t, int64(-978307200000000000), toAppleTime(time.Unix(0, 0)))

	ts := time.Date(2023, 7, 14, 13, 0, 0, 123, time.UTC)
	assert.True(t, ts.Equal(fromAppleTime(toAppleTime(ts))))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yml")
	msgs := []record.Message{
		{ID: 3, Text: "late", Time: at(20, 0), Sender: "8012"},
		{ID: 1, Text: "early", Time: at(2, 0), Sender: "8012"},
		{ID: 2, Text: "other sender", Time: at(4, 0), Sender: "1234"},
	}
	require.NoError(t, WriteFile(path, msgs))

	store, err := LoadFile(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Fetch(context.Background(), Query{Contacts: []string{"8012"}, Start: at(1, 0), End: at(31, 0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late"}, texts(got))

	got, err = store.Fetch(context.Background(), Query{Contacts: []string{"8012", "1234"}, Start: at(3, 0), End: at(10, 0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"other sender"}, texts(got))
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("messages: [::"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}
