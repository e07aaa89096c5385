package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/mklimuk/review-pilot/pkg/joplin"
)

// Category names one of the four item classifications of a review.
type Category string

const (
	CreatedNotes   Category = "CREATED_NOTES"
	UpdatedNotes   Category = "UPDATED_NOTES"
	CreatedTodos   Category = "CREATED_TODOS"
	CompletedTodos Category = "COMPLETED_TODOS"
)

// Categories returns all categories in document section order.
func Categories() []Category {
	return []Category{CreatedNotes, UpdatedNotes, CreatedTodos, CompletedTodos}
}

// SectionTitle returns the markdown heading text for a category.
func (c Category) SectionTitle() string {
	switch c {
	case CreatedNotes:
		return "Created Notes"
	case UpdatedNotes:
		return "Updated Notes"
	case CreatedTodos:
		return "Created Todos"
	case CompletedTodos:
		return "Completed Todos"
	}
	return string(c)
}

// Store is the subset of the host item store the review pipeline needs.
// *joplin.Client satisfies it.
type Store interface {
	Search(ctx context.Context, query, itemType string, opts joplin.QueryOptions) ([]joplin.Item, error)
	SearchPage(ctx context.Context, query, itemType string, fields []string, page int) (*joplin.Page, error)
	CreateNote(ctx context.Context, content joplin.NoteContent) (*joplin.Item, error)
	UpdateNote(ctx context.Context, id string, content joplin.NoteContent) error
}

// ItemSet is an identifier-keyed item collection that preserves the
// store's result order. Last write wins on duplicate identifiers without
// disturbing the original position.
type ItemSet struct {
	order []string
	items map[string]joplin.Item
}

// NewItemSet builds a set from items in the given order.
func NewItemSet(items ...joplin.Item) *ItemSet {
	s := &ItemSet{items: make(map[string]joplin.Item)}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts or replaces an item.
func (s *ItemSet) Add(it joplin.Item) {
	if _, ok := s.items[it.ID]; !ok {
		s.order = append(s.order, it.ID)
	}
	s.items[it.ID] = it
}

// Get resolves an identifier back to its item.
func (s *ItemSet) Get(id string) (joplin.Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// IDs returns the identifiers in result order.
func (s *ItemSet) IDs() []string {
	return s.order
}

// Len returns the number of items in the set.
func (s *ItemSet) Len() int {
	return len(s.order)
}

// Categorized maps each category to its matching items for one window.
// Built fresh per review run; never persisted.
type Categorized map[Category]*ItemSet

// Classifier issues category-scoped queries against the item store.
type Classifier struct {
	store Store
}

// NewClassifier creates a classifier over the given store.
func NewClassifier(store Store) *Classifier {
	return &Classifier{store: store}
}

// Classify runs the four category queries for a window. Each query is
// independent and fully paginated; an item may legitimately land in more
// than one category (created and updated in the same window, for
// example).
//
// The search syntax constrains the item type inside the query string
// (type:todo as a search term works where the type parameter does not),
// uses any:0 so every term must match, and bounds each timestamp field
// with an inclusive lower term plus an exclusion term for the upper
// stamp. todo_completed is not searchable, so iscompleted:1 combined
// with the updated range stands in for the completion timestamp.
func (c *Classifier) Classify(ctx context.Context, w Window) (Categorized, error) {
	created := fmt.Sprintf("created:%s -created:%s", w.Lower, w.Upper)
	updated := fmt.Sprintf("updated:%s -updated:%s", w.Lower, w.Upper)

	queries := map[Category]string{
		CreatedNotes:   join("type:note", "any:0", created),
		CreatedTodos:   join("type:todo", "any:0", created),
		UpdatedNotes:   join("type:note", "any:0", updated),
		CompletedTodos: join("type:todo", "any:0", "iscompleted:1", updated),
	}

	result := make(Categorized, len(queries))
	for _, cat := range Categories() {
		items, err := c.store.Search(ctx, queries[cat], "", joplin.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("%s query failed: %w", cat, err)
		}
		result[cat] = NewItemSet(items...)
	}
	return result, nil
}

func join(terms ...string) string {
	return strings.Join(terms, " ")
}
