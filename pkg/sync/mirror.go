package sync

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Mirror writes a markdown copy of every generated review note into a
// local directory, optionally versioning it with git. The host store
// stays authoritative; the mirror is a readable, greppable shadow.
type Mirror struct {
	Dir string
	Git *GitManager
}

// NewMirror creates a Mirror rooted at dir. git may be nil.
func NewMirror(dir string, git *GitManager) *Mirror {
	return &Mirror{Dir: dir, Git: git}
}

// MirrorNote writes the note under a filename derived from its title.
// Titles are stable per (day, type), so refreshed reviews overwrite
// their own file.
func (m *Mirror) MirrorNote(title, body string) error {
	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create mirror directory: %w", err)
	}

	path := filepath.Join(m.Dir, SanitizeFilename(title)+".md")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write mirror file: %w", err)
	}

	if m.Git != nil {
		go func() {
			if err := m.Git.Sync("Refresh review: " + title); err != nil {
				log.Printf("Git sync of mirror failed: %v", err)
			}
		}()
	}
	return nil
}

// SanitizeFilename removes characters invalid in filenames.
func SanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range invalid {
		name = strings.ReplaceAll(name, char, "-")
	}
	return strings.TrimSpace(name)
}
