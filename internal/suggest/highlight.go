package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Highlight returns the byte offsets in suggestion that match query, for
// bolding the typed characters in the dropdown. Nil when nothing matches.
func Highlight(query, suggestion string) []int {
	query = strings.TrimSpace(query)
	if query == "" || suggestion == "" {
		return nil
	}
	// Case folding must keep byte offsets aligned with the original
	lower := strings.ToLower(suggestion)
	if len(lower) != len(suggestion) {
		return nil
	}
	matches := fuzzy.Find(strings.ToLower(query), []string{lower})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}
