package review

import (
	"context"
	"errors"
	"testing"

	"github.com/mklimuk/review-pilot/pkg/joplin"
)

var dayWindow = Window{Unit: "day-0", Lower: "20240315", Upper: "20240316", Label: "2024-03-15"}

func TestClassifyQueries(t *testing.T) {
	store := newFakeStore()
	c := NewClassifier(store)

	if _, err := c.Classify(context.Background(), dayWindow); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"type:note any:0 created:20240315 -created:20240316",
		"type:note any:0 updated:20240315 -updated:20240316",
		"type:todo any:0 created:20240315 -created:20240316",
		"type:todo any:0 iscompleted:1 updated:20240315 -updated:20240316",
	}
	if len(store.queries) != len(want) {
		t.Fatalf("issued %d queries, want %d: %v", len(store.queries), len(want), store.queries)
	}
	for i, q := range want {
		if store.queries[i] != q {
			t.Errorf("query %d = %q, want %q", i, store.queries[i], q)
		}
	}
}

func TestClassifyIndependentCategories(t *testing.T) {
	store := newFakeStore()
	// The same note was both created and updated inside the window; it
	// must land in both categories, not be claimed by the first match.
	note := joplin.Item{ID: "n1", Title: "Fresh Note", CreatedTime: 1710500000000, UpdatedTime: 1710500000000}
	store.searchResults["type:note any:0 created:20240315 -created:20240316"] = []joplin.Item{note}
	store.searchResults["type:note any:0 updated:20240315 -updated:20240316"] = []joplin.Item{note}

	cat, err := NewClassifier(store).Classify(context.Background(), dayWindow)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cat[CreatedNotes].Get("n1"); !ok {
		t.Error("note missing from CREATED_NOTES")
	}
	if _, ok := cat[UpdatedNotes].Get("n1"); !ok {
		t.Error("note missing from UPDATED_NOTES")
	}
	if cat[CreatedTodos].Len() != 0 || cat[CompletedTodos].Len() != 0 {
		t.Error("todo categories should be empty")
	}
}

func TestClassifyDuplicateIDs(t *testing.T) {
	store := newFakeStore()
	store.searchResults["type:todo any:0 created:20240315 -created:20240316"] = []joplin.Item{
		{ID: "t1", Title: "First"},
		{ID: "t2", Title: "Other"},
		{ID: "t1", Title: "Rewritten"},
	}

	cat, err := NewClassifier(store).Classify(context.Background(), dayWindow)
	if err != nil {
		t.Fatal(err)
	}
	set := cat[CreatedTodos]
	if set.Len() != 2 {
		t.Fatalf("len = %d, want 2", set.Len())
	}
	// Last write wins without disturbing the original position.
	if got := set.IDs()[0]; got != "t1" {
		t.Errorf("first id = %q, want t1", got)
	}
	if item, _ := set.Get("t1"); item.Title != "Rewritten" {
		t.Errorf("t1 title = %q, want Rewritten", item.Title)
	}
}

func TestClassifyStoreFault(t *testing.T) {
	store := newFakeStore()
	storeErr := errors.New("connection refused")
	store.searchErrs["type:note any:0 updated:20240315 -updated:20240316"] = storeErr

	_, err := NewClassifier(store).Classify(context.Background(), dayWindow)
	if err == nil {
		t.Fatal("expected store fault to propagate, got nil")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
