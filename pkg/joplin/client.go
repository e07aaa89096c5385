package joplin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultBaseURL = "http://localhost:41184"

// DefaultFields is the field set requested for classification queries.
var DefaultFields = []string{
	"id",
	"title",
	"created_time",
	"updated_time",
	"is_todo",
	"todo_completed",
}

// QueryOptions controls field selection and ordering of item queries.
type QueryOptions struct {
	Fields   []string
	OrderBy  string
	OrderDir string
}

// DefaultOptions returns the standard query options: default fields,
// ordered by updated_time descending.
func DefaultOptions() QueryOptions {
	return QueryOptions{
		Fields:   DefaultFields,
		OrderBy:  "updated_time",
		OrderDir: "DESC",
	}
}

// Client talks to the Joplin Data API (the desktop app's Web Clipper
// service endpoint).
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a client for the given endpoint and API token.
// An empty baseURL falls back to the standard local endpoint.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("token", c.token)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("joplin API error (status %d): %s", resp.StatusCode, string(respBytes))
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	params := url.Values{}
	params.Set("token", c.token)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("joplin API error (status %d): %s", resp.StatusCode, string(respBytes))
	}
	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func queryParams(opts QueryOptions) url.Values {
	params := url.Values{}
	if len(opts.Fields) > 0 {
		params.Set("fields", strings.Join(opts.Fields, ","))
	}
	if opts.OrderBy != "" {
		params.Set("order_by", opts.OrderBy)
	}
	if opts.OrderDir != "" {
		params.Set("order_dir", opts.OrderDir)
	}
	return params
}

// getAll loops over pages starting at 1 until the API reports no more
// results, concatenating items. The API never guarantees a result cap,
// so callers must not assume a single page is complete.
func (c *Client) getAll(ctx context.Context, path string, params url.Values) ([]Item, error) {
	var items []Item
	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))
		var result Page
		if err := c.get(ctx, path, params, &result); err != nil {
			return nil, err
		}
		items = append(items, result.Items...)
		if !result.HasMore {
			return items, nil
		}
	}
}

// Notes returns all notes, fully paginated.
func (c *Client) Notes(ctx context.Context, opts QueryOptions) ([]Item, error) {
	return c.getAll(ctx, "/notes", queryParams(opts))
}

// Search runs a full-text search query, fully paginated. itemType may be
// empty when the query string itself constrains the type.
func (c *Client) Search(ctx context.Context, query, itemType string, opts QueryOptions) ([]Item, error) {
	params := queryParams(opts)
	params.Set("query", query)
	if itemType != "" {
		params.Set("type", itemType)
	}
	return c.getAll(ctx, "/search", params)
}

// SearchPage runs a search query and returns a single page of results.
func (c *Client) SearchPage(ctx context.Context, query, itemType string, fields []string, page int) (*Page, error) {
	params := url.Values{}
	params.Set("query", query)
	if itemType != "" {
		params.Set("type", itemType)
	}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	params.Set("page", strconv.Itoa(page))

	var result Page
	if err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateNote creates a new note and returns the stored item.
func (c *Client) CreateNote(ctx context.Context, content NoteContent) (*Item, error) {
	var item Item
	if err := c.send(ctx, http.MethodPost, "/notes", content, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateNote replaces the title and body of an existing note.
func (c *Client) UpdateNote(ctx context.Context, id string, content NoteContent) error {
	return c.send(ctx, http.MethodPut, "/notes/"+id, content, nil)
}

// Events returns one page of the change feed starting at cursor. An empty
// cursor starts from the beginning of the feed.
func (c *Client) Events(ctx context.Context, cursor string) (*EventPage, error) {
	params := url.Values{}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	var result EventPage
	if err := c.get(ctx, "/events", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks that the API endpoint is reachable and the token valid.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("fields", "id")
	params.Set("limit", "1")
	var result Page
	return c.get(ctx, "/notes", params, &result)
}
