package sync

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// GitManager versions the review mirror directory.
type GitManager struct {
	RepoPath string
	Push     bool
}

// NewGitManager creates a GitManager for the given repository path. When
// push is false, changes are committed locally only.
func NewGitManager(repoPath string, push bool) *GitManager {
	return &GitManager{RepoPath: repoPath, Push: push}
}

// Sync stages all changes, commits them and optionally pushes.
func (g *GitManager) Sync(message string) error {
	r, err := git.PlainOpen(g.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to open repo: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	if _, err := w.Add("."); err != nil {
		return fmt.Errorf("failed to add changes: %w", err)
	}

	if message == "" {
		message = fmt.Sprintf("Refresh reviews: %s", time.Now().Format(time.RFC3339))
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Review Pilot",
			Email: "pilot@review.local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	if !g.Push {
		return nil
	}
	return g.push(r)
}

func (g *GitManager) push(r *git.Repository) error {
	opts := &git.PushOptions{}

	// go-git has no credential-helper support; fall back to the default
	// SSH key when one is readable, otherwise try an unauthenticated push.
	home, _ := os.UserHomeDir()
	keyPath := filepath.Join(home, ".ssh", "id_rsa")
	if publicKeys, err := ssh.NewPublicKeysFromFile("git", keyPath, ""); err == nil {
		opts.Auth = publicKeys
	} else {
		log.Printf("No usable SSH key (%v); pushing without explicit auth", err)
	}

	if err := r.Push(opts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
