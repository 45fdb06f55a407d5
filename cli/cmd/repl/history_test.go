package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	if err := h.Load(); err != nil {
		t.Fatalf("Load missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"x = 1", modeEval},
		{"list", modeCtrl},
		{"x = 1", modeEval},
		{"while x < 3", modeEval},
		{"    x = x + 1", modeEval},
		{"list", modeCtrl},
		{"  ", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"x = 1", modeEval},
		{"while x < 3", modeEval},
		{"    x = x + 1", modeEval},
		{"list", modeCtrl},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries = %v, want %v", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries = %v, want %v", got, want)
	}

	if _, err := reloaded.Entry(len(want)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry out of range = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "E:x = 1\nE:while x < 3\nE:    x = x + 1\nC:list\n" {
		t.Errorf("history file = %q", data)
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		text string
		want HistoryEntry
	}{
		{"C:quit", HistoryEntry{"quit", modeCtrl}},
		{"E:out(1)", HistoryEntry{"out(1)", modeEval}},
		{"out(2)", HistoryEntry{"out(2)", modeEval}},
	}

	for _, tt := range tests {
		if got := decodeEntry(tt.text); got != tt.want {
			t.Errorf("decodeEntry(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
