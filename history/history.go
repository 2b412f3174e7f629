// Package history keeps an ordered, append-only log of calculator
// submissions and writes it out as plain text.
package history

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"
)

// ErrEmpty is returned by Save and WriteTo when the log has no entries.
var ErrEmpty = errors.New("history: log is empty")

// Entry is one logged submission.
type Entry struct {
	// Time is when the submission happened.
	Time time.Time
	// Mode names the solver the query went to.
	Mode string
	// Query is the submitted text.
	Query string
	// Result is the answer or error text the query produced.
	Result string
}

// String renders the entry as a single log line.
func (e Entry) String() string {
	return "[" + e.Time.Format("2006-01-02 15:04:05") + "] (" + e.Mode + ") " + e.Query + " -> " + e.Result
}

// Log is an ordered log of submissions. The zero value is an empty log ready
// to use. A Log is not safe for concurrent use.
type Log struct {
	entries []Entry
	// now is replaceable for tests.
	now func() time.Time
}

// Append adds an entry timestamped now and returns it.
func (l *Log) Append(mode, query, result string) Entry {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	e := Entry{Time: now(), Mode: mode, Query: query, Result: result}
	l.entries = append(l.entries, e)
	return e
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log's entries in order.
func (l *Log) Entries() []Entry {
	return append(([]Entry)(nil), l.entries...)
}

// WriteTo writes every entry to w, one line per entry. An empty log is
// ErrEmpty.
func (l *Log) WriteTo(w io.Writer) (int64, error) {
	if len(l.entries) == 0 {
		return 0, ErrEmpty
	}
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Save writes the log to a file at path, replacing any existing file. An
// empty log is ErrEmpty and writes nothing.
func (l *Log) Save(path string) error {
	if len(l.entries) == 0 {
		return ErrEmpty
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := l.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
