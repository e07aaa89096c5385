package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	banner = "(Auto-generated by Review Pilot)\n"
	spacer = "\n\n"
	fence  = "```"
)

// Metadata is the machine-readable block embedded at the end of every
// review note. It is the idempotency ledger: locating a note by its
// ReviewID is how subsequent runs find what to replace.
type Metadata struct {
	ReviewMetadata bool   `json:"reviewMetadata"`
	ReviewID       string `json:"reviewId"`
	ReviewType     Type   `json:"reviewType"`
}

// Render builds the review note body: banner, one section per category
// in fixed order, then the fenced metadata block. Empty categories still
// render their heading. Output is deterministic for identical inputs;
// item order within a section is the store's result order.
func Render(cat Categorized, id string, t Type) (string, error) {
	blocks := []string{banner}
	for _, c := range Categories() {
		section, err := linksSection(c.SectionTitle(), cat[c])
		if err != nil {
			return "", err
		}
		blocks = append(blocks, section...)
		blocks = append(blocks, spacer)
	}
	blocks = append(blocks, spacer, spacer)

	meta, err := json.Marshal(Metadata{ReviewMetadata: true, ReviewID: id, ReviewType: t})
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	blocks = append(blocks, fence+"\n"+string(meta)+"\n"+fence)

	return strings.Join(blocks, "\n"), nil
}

// linksSection renders a heading plus one link bullet per item. A set
// identifier that cannot be resolved to an item is a data-integrity
// fault and aborts the render.
func linksSection(title string, items *ItemSet) ([]string, error) {
	out := []string{"# " + title + "\n"}
	if items == nil {
		return out, nil
	}
	for _, id := range items.IDs() {
		item, ok := items.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s in section %q", ErrLookup, id, title)
		}
		out = append(out, fmt.Sprintf("* [%s](:/%s)", item.Title, item.ID))
	}
	return out, nil
}

// ParseMetadata recovers the metadata block from a rendered body. It
// anchors on the fenced block the body ends with, so fence characters
// appearing earlier in item titles cannot shift what gets parsed, and
// requires the reviewMetadata marker.
func ParseMetadata(body string) (Metadata, error) {
	trimmed := strings.TrimRight(body, "\n")
	if !strings.HasSuffix(trimmed, fence) {
		return Metadata{}, fmt.Errorf("no fenced metadata block found")
	}
	inner := strings.TrimSuffix(trimmed, fence)
	open := strings.LastIndex(inner, fence+"\n")
	if open < 0 {
		return Metadata{}, fmt.Errorf("no fenced metadata block found")
	}
	raw := strings.TrimSpace(inner[open+len(fence):])

	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata block: %w", err)
	}
	if !meta.ReviewMetadata {
		return Metadata{}, fmt.Errorf("fenced block is not review metadata")
	}
	return meta, nil
}
