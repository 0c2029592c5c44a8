package types

import (
	"context"
	"time"
)

// RawArticle is a feed entry as extracted from the document, before any
// filtering or summarization. Missing fields are empty strings.
type RawArticle struct {
	Title       string
	Link        string
	Description string
	PubDate     string
}

// Article is a validated entry ready for rendering.
// Title and Link are never empty. PubDate is nil when the source date
// could not be parsed.
type Article struct {
	Title   string
	Link    string
	Summary string
	PubDate *time.Time
}

// Fetcher retrieves the raw body of a feed.
// Implementations report failures themselves and return an empty string.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}
