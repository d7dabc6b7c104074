// Package suggest finds close matches for misspelled names, such as
// resource types, attributes and resource names in references.
package suggest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// maxDistance is the number of edits allowed for a name: one for every four
// characters, and at least one.
func maxDistance(name string) int {
	if n := utf8.RuneCountInString(name) / 4; n > 0 {
		return n
	}
	return 1
}

// String returns the candidate closest to name, comparing case
// insensitively. An exact match is returned as is. Ties go to the earlier
// candidate. If no candidate is within the allowed distance, String returns
// an empty string.
func String(name string, candidates []string) string {
	want := strings.ToLower(name)
	best, bestDist := "", maxDistance(name)+1
	for _, c := range candidates {
		if c == name {
			return c
		}
		if d := levenshtein.Distance(want, strings.ToLower(c), nil); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// DidYouMean formats the suggestion for name as a sentence to append to an
// error message. It is empty when there is no suggestion or name is exact.
func DidYouMean(name string, candidates []string) string {
	s := String(name, candidates)
	if s == "" || s == name {
		return ""
	}
	return fmt.Sprintf("Did you mean %q?", s)
}
