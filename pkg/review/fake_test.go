package review

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mklimuk/review-pilot/pkg/joplin"
)

// fakeStore is an in-memory Store. Classification queries are answered
// from canned results keyed by the exact query string; created notes are
// stored and found again by body substring search, which is how the real
// identifier lookup behaves.
type fakeStore struct {
	mu            sync.Mutex
	searchResults map[string][]joplin.Item
	searchErrs    map[string]error

	noteOrder []string
	notes     map[string]joplin.Item
	seq       int

	queries     []string
	createCalls int
	updateCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		searchResults: make(map[string][]joplin.Item),
		searchErrs:    make(map[string]error),
		notes:         make(map[string]joplin.Item),
	}
}

func (f *fakeStore) Search(_ context.Context, query, _ string, _ joplin.QueryOptions) ([]joplin.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err := f.searchErrs[query]; err != nil {
		return nil, err
	}
	return f.searchResults[query], nil
}

func (f *fakeStore) SearchPage(_ context.Context, query, _ string, _ []string, _ int) (*joplin.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []joplin.Item
	for _, id := range f.noteOrder {
		n := f.notes[id]
		if strings.Contains(n.Body, query) {
			items = append(items, n)
		}
	}
	return &joplin.Page{Items: items}, nil
}

func (f *fakeStore) CreateNote(_ context.Context, content joplin.NoteContent) (*joplin.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.createCalls++
	item := joplin.Item{
		ID:    fmt.Sprintf("note-%d", f.seq),
		Title: content.Title,
		Body:  content.Body,
	}
	f.noteOrder = append(f.noteOrder, item.ID)
	f.notes[item.ID] = item
	return &item, nil
}

func (f *fakeStore) UpdateNote(_ context.Context, id string, content joplin.NoteContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	n, ok := f.notes[id]
	if !ok {
		return fmt.Errorf("no such note %s", id)
	}
	n.Title = content.Title
	n.Body = content.Body
	f.notes[id] = n
	return nil
}

// addNote seeds a pre-existing note, bypassing call counters.
func (f *fakeStore) addNote(id, title, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteOrder = append(f.noteOrder, id)
	f.notes[id] = joplin.Item{ID: id, Title: title, Body: body}
}

func (f *fakeStore) noteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.noteOrder)
}

func (f *fakeStore) firstNote() joplin.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notes[f.noteOrder[0]]
}
