package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEntryString(t *testing.T) {
	e := Entry{
		Time:   time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC),
		Mode:   "expr",
		Query:  "(5 + 3) * 2 - 4^2",
		Result: "0",
	}
	want := "[2024-03-01 09:30:05] (expr) (5 + 3) * 2 - 4^2 -> 0"
	if got := e.String(); got != want {
		t.Errorf("wrong entry line: want %q, got %q", want, got)
	}
}

func TestAppendOrder(t *testing.T) {
	var l Log
	l.now = fixedClock(time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC))
	l.Append("expr", "1+1", "2")
	l.Append("equation", "3*x - 6 = 12", "x = 6")
	l.Append("text", "nope", "cannot solve this problem automatically (try rephrasing it)")
	if l.Len() != 3 {
		t.Fatalf("wrong length: want 3, got %d", l.Len())
	}
	es := l.Entries()
	if es[0].Query != "1+1" || es[1].Query != "3*x - 6 = 12" || es[2].Query != "nope" {
		t.Errorf("entries out of order: %v", es)
	}
	// The copy must not alias the log.
	es[0].Query = "mutated"
	if l.Entries()[0].Query != "1+1" {
		t.Error("Entries returned an aliased slice")
	}
}

func TestWriteTo(t *testing.T) {
	var l Log
	l.now = fixedClock(time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC))
	l.Append("expr", "2^3", "8")
	l.Append("equation", "5 = 5", "identically true")
	var b strings.Builder
	n, err := l.WriteTo(&b)
	if err != nil {
		t.Fatal("WriteTo failed:", err)
	}
	want := "[2024-03-01 09:30:05] (expr) 2^3 -> 8\n" +
		"[2024-03-01 09:30:05] (equation) 5 = 5 -> identically true\n"
	if b.String() != want {
		t.Errorf("wrong output: want %q, got %q", want, b.String())
	}
	if n != int64(len(want)) {
		t.Errorf("wrong byte count: want %d, got %d", len(want), n)
	}
}

func TestWriteToEmpty(t *testing.T) {
	var l Log
	var b strings.Builder
	if _, err := l.WriteTo(&b); !errors.Is(err, ErrEmpty) {
		t.Errorf("WriteTo on empty log gave %v, want ErrEmpty", err)
	}
	if b.Len() != 0 {
		t.Errorf("WriteTo on empty log wrote %q", b.String())
	}
}

func TestSave(t *testing.T) {
	var l Log
	l.now = fixedClock(time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC))
	l.Append("expr", "10 / 4", "2.5")
	path := filepath.Join(t.TempDir(), "history.txt")
	if err := l.Save(path); err != nil {
		t.Fatal("Save failed:", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[2024-03-01 09:30:05] (expr) 10 / 4 -> 2.5\n"
	if string(got) != want {
		t.Errorf("wrong file contents: want %q, got %q", want, got)
	}
}

func TestSaveEmpty(t *testing.T) {
	var l Log
	path := filepath.Join(t.TempDir(), "history.txt")
	if err := l.Save(path); !errors.Is(err, ErrEmpty) {
		t.Errorf("Save on empty log gave %v, want ErrEmpty", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("Save on empty log created a file")
	}
}
