package ai

import (
	"fmt"
	"strings"
)

// Section is one category of a review snapshot fed to the digest prompt.
type Section struct {
	Title  string
	Titles []string
}

// DigestPrompt returns a prompt asking for a short narrative summary of
// a review period. The digest is delivered out of band; it is never
// written into the review note itself, which stays deterministic.
func DigestPrompt(periodLabel string, sections []Section) string {
	var sb strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&sb, "%s (%d):\n", s.Title, len(s.Titles))
		for _, title := range s.Titles {
			fmt.Fprintf(&sb, "- %s\n", title)
		}
	}

	return fmt.Sprintf(`
You are a personal knowledge base assistant. Below is the activity in my
notes for the period %s, grouped by category.

%s
Instructions:
1. Summarize the period's activity in 2-3 sentences.
2. Call out any theme that connects several items.
3. If to-dos were completed, acknowledge the progress briefly.

Output plain prose, no headings or lists.
`, periodLabel, sb.String())
}
