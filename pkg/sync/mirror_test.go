package sync

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-03-15 Daily Review", "2024-03-15 Daily Review"},
		{"2024 #11 Weekly Review", "2024 #11 Weekly Review"},
		{"a/b\\c:d*e?f\"g<h>i|j", "a-b-c-d-e-f-g-h-i-j"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMirrorNoteWritesFile(t *testing.T) {
	dir := t.TempDir()
	m := NewMirror(filepath.Join(dir, "reviews"), nil)

	if err := m.MirrorNote("2024-03-15 Daily Review", "body text"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "reviews", "2024-03-15 Daily Review.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "body text" {
		t.Errorf("file content = %q", string(data))
	}
}

func TestMirrorNoteOverwrites(t *testing.T) {
	dir := t.TempDir()
	m := NewMirror(dir, nil)

	if err := m.MirrorNote("2024-03-15 Daily Review", "first"); err != nil {
		t.Fatal(err)
	}
	if err := m.MirrorNote("2024-03-15 Daily Review", "second"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("refreshed file content = %q, want second", string(data))
	}
}
