// Package summary turns free-form feed bodies into short plain-text blurbs.
package summary

import (
	"html"
	"regexp"
	"strings"
)

// DefaultMaxWords is the summary length used by the generator
const DefaultMaxWords = 50

const ellipsis = "..."

// tagPattern matches anything that looks like a single markup tag.
// Unbalanced brackets are left in place.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Summarize strips markup from text, decodes entities and keeps at most
// maxWords words. An ellipsis is glued to the last word when words were cut.
// A non-positive maxWords means DefaultMaxWords.
func Summarize(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	clean := html.UnescapeString(tagPattern.ReplaceAllString(text, ""))
	words := strings.Fields(clean)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + ellipsis
}
