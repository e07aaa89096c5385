package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/review-pilot/pkg/joplin"
)

// Writer locates the note carrying a review identifier and either
// replaces it in place or creates it. Upserts for the same identifier
// are serialized in-process: without that, two interleaved runs could
// both search, both miss, and both create, breaking the at-most-one-note
// invariant.
type Writer struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWriter creates an upsert writer over the given store.
func NewWriter(store Store) *Writer {
	return &Writer{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (w *Writer) lockFor(id string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	lock, ok := w.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		w.locks[id] = lock
	}
	return lock
}

// Upsert searches for a note whose content matches the identifier and
// writes the given title/body over it, or creates a new note when none
// exists. More than one match fails with ErrAmbiguousUpsert and writes
// nothing.
func (w *Writer) Upsert(ctx context.Context, id, title, body string) error {
	lock := w.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	page, err := w.store.SearchPage(ctx, id, "note", []string{"id", "title", "body"}, 1)
	if err != nil {
		return fmt.Errorf("identifier search failed: %w", err)
	}

	content := joplin.NoteContent{Title: title, Body: body}
	switch len(page.Items) {
	case 0:
		if _, err := w.store.CreateNote(ctx, content); err != nil {
			return fmt.Errorf("failed to create review note: %w", err)
		}
		return nil
	case 1:
		if err := w.store.UpdateNote(ctx, page.Items[0].ID, content); err != nil {
			return fmt.Errorf("failed to update review note: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q matched %d notes", ErrAmbiguousUpsert, id, len(page.Items))
	}
}
