// Package guard rejects adult search terms locally, before any request is issued.
package guard

import (
	"regexp"
	"strings"
)

// BlockedTerms are matched as whole words, case-insensitively
var BlockedTerms = []string{"sex", "porn", "nude", "erotic", "xxx", "adult", "nsfw", "fetish"}

var blocked = compile(BlockedTerms)

func compile(terms []string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// IsInappropriate reports whether text contains a blocked term
func IsInappropriate(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return blocked.MatchString(text)
}
