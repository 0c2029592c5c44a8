// Package pubdate parses the publication dates found in RSS and Atom feeds.
//
// Zone abbreviations such as "EST" are kept as a label only. Go resolves an
// abbreviation it does not know to a zero offset, so sort order across
// sources using such zones is best effort.
package pubdate

import (
	"strings"
	"time"
)

// Layouts are tried in order, the first match wins
var Layouts = []string{
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// Parse returns the timestamp in s, or nil when s is empty or matches
// none of the known layouts.
func Parse(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
