package joplin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// scriptedEvents serves the given /events responses in order; once they
// run out it answers every poll as quiet, echoing the caller's cursor.
func scriptedEvents(t *testing.T, pages []EventPage) *httptest.Server {
	t.Helper()
	idx := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("path = %s, want /events", r.URL.Path)
		}
		if idx >= len(pages) {
			json.NewEncoder(w).Encode(EventPage{Cursor: r.URL.Query().Get("cursor")})
			return
		}
		json.NewEncoder(w).Encode(pages[idx])
		idx++
	}))
	t.Cleanup(server.Close)
	return server
}

func testWatcher(server *httptest.Server, onChange func()) *Watcher {
	client := NewClient(server.URL, "secret")
	return NewWatcher(client, time.Hour, onChange)
}

func TestWatcherFastForwardsPastBacklog(t *testing.T) {
	server := scriptedEvents(t, []EventPage{
		{Items: []Event{{ID: 1, ItemID: "old-1", Type: 1}}, HasMore: true, Cursor: "1"},
		{Items: []Event{{ID: 2, ItemID: "old-2", Type: 2}}, Cursor: "2"},
	})

	fired := 0
	w := testWatcher(server, func() { fired++ })

	// The startup drain walks the whole backlog without notifying.
	if err := w.sync(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if w.cursor != "2" {
		t.Errorf("cursor after startup drain = %q, want 2", w.cursor)
	}
	if fired != 0 {
		t.Errorf("startup drain fired callback %d times", fired)
	}

	// A quiet poll after the drain stays quiet.
	if err := w.sync(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if fired != 0 {
		t.Errorf("quiet poll fired callback %d times", fired)
	}
}

func TestWatcherNotifiesOncePerDrain(t *testing.T) {
	server := scriptedEvents(t, []EventPage{
		{Items: []Event{{ID: 3, ItemID: "a", Type: 1}}, HasMore: true, Cursor: "3"},
		{Items: []Event{{ID: 4, ItemID: "b", Type: 2}}, Cursor: "4"},
	})

	fired := 0
	w := testWatcher(server, func() { fired++ })
	w.cursor = "2"

	if err := w.sync(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Errorf("multi-page drain fired callback %d times, want 1", fired)
	}
	if w.cursor != "4" {
		t.Errorf("cursor = %q, want 4", w.cursor)
	}
}

func TestWatcherKeepsCursorOnEmptyResponse(t *testing.T) {
	server := scriptedEvents(t, []EventPage{
		{Items: []Event{{ID: 5, ItemID: "old", Type: 1}}, Cursor: "5"},
		{}, // quiet poll with the cursor field omitted entirely
	})

	fired := 0
	w := testWatcher(server, func() { fired++ })

	if err := w.sync(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if w.cursor != "5" {
		t.Fatalf("cursor after startup drain = %q, want 5", w.cursor)
	}

	// The cursorless response must not rewind the watcher.
	if err := w.sync(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if w.cursor != "5" {
		t.Errorf("cursor after empty response = %q, want 5", w.cursor)
	}
	if fired != 0 {
		t.Errorf("empty response fired callback %d times", fired)
	}

	// Subsequent polls still resume from the kept cursor, so the
	// pre-startup event is never replayed into the callback.
	if err := w.sync(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if fired != 0 {
		t.Errorf("callback re-fired %d times for pre-startup events", fired)
	}
}
