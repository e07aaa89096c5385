package joplin

import "time"

// Item is a note or to-do as returned by the Joplin Data API.
// Timestamps are epoch milliseconds, the API's native representation.
type Item struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Body          string `json:"body,omitempty"`
	CreatedTime   int64  `json:"created_time"`
	UpdatedTime   int64  `json:"updated_time"`
	IsTodo        int    `json:"is_todo"`
	TodoCompleted int64  `json:"todo_completed"`
}

// Todo reports whether the item is a to-do rather than a plain note.
func (i Item) Todo() bool {
	return i.IsTodo != 0
}

// Created returns the creation timestamp as a time.Time.
func (i Item) Created() time.Time {
	return time.UnixMilli(i.CreatedTime)
}

// Updated returns the last-update timestamp as a time.Time.
func (i Item) Updated() time.Time {
	return time.UnixMilli(i.UpdatedTime)
}

// Page is one page of a paginated query result.
type Page struct {
	Items   []Item `json:"items"`
	HasMore bool   `json:"has_more"`
}

// NoteContent is the payload for note create/update calls.
type NoteContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Event is one entry of the /events change feed.
type Event struct {
	ID          int64  `json:"id"`
	ItemType    int    `json:"item_type"`
	ItemID      string `json:"item_id"`
	Type        int    `json:"type"`
	CreatedTime int64  `json:"created_time"`
}

// EventPage is one page of the /events change feed.
type EventPage struct {
	Items   []Event `json:"items"`
	HasMore bool    `json:"has_more"`
	Cursor  string  `json:"cursor"`
}
