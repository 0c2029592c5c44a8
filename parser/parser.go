package parser

import (
	"html"
	"iter"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/scipunch/currentcapital/fetcher/types"
)

// Shape is the document family a feed belongs to
type Shape int

const (
	Unknown Shape = iota
	RSS
	Atom
)

func (s Shape) String() string {
	switch s {
	case RSS:
		return "rss"
	case Atom:
		return "atom"
	default:
		return "unknown"
	}
}

// mapping picks the fields of a decoded item in fallback order
type mapping struct {
	description func(*gofeed.Item) []string
	pubDate     func(*gofeed.Item) []string
}

var mappings = map[Shape]mapping{
	RSS: {
		description: func(it *gofeed.Item) []string { return []string{it.Description, it.Content} },
		pubDate:     func(it *gofeed.Item) []string { return []string{it.Published, it.Updated} },
	},
	// Atom has no description element, its body lives in content
	Atom: {
		description: func(it *gofeed.Item) []string { return []string{it.Content, it.Description} },
		pubDate:     func(it *gofeed.Item) []string { return []string{it.Updated, it.Published} },
	},
}

// encodingDecl matches the encoding attribute of a leading XML declaration
var encodingDecl = regexp.MustCompile(`^(\s*<\?xml[^>]*?\sencoding\s*=\s*)("[^"]*"|'[^']*')`)

// Detect reports whether raw is an RSS (channel based) or an Atom document
func Detect(raw string) Shape {
	switch gofeed.DetectFeedType(strings.NewReader(raw)) {
	case gofeed.FeedTypeRSS:
		return RSS
	case gofeed.FeedTypeAtom:
		return Atom
	default:
		return Unknown
	}
}

// Parse decodes an RSS or Atom document into raw articles.
// Malformed or unsupported input is logged, with attrs attached to the
// log line, and yields nothing.
func Parse(raw string, attrs ...any) iter.Seq[types.RawArticle] {
	if strings.TrimSpace(raw) == "" {
		return empty
	}

	shape := Detect(raw)
	m, ok := mappings[shape]
	if !ok {
		slog.Error("unsupported feed format", append(attrs, "length", len(raw))...)
		return empty
	}

	feed, err := gofeed.NewParser().ParseString(asUTF8(raw))
	if err != nil {
		slog.Error("failed to parse feed", append(attrs, "shape", shape, "error", err)...)
		return empty
	}

	return func(yield func(types.RawArticle) bool) {
		for _, item := range feed.Items {
			if item == nil {
				continue
			}
			if !yield(m.convert(item)) {
				return
			}
		}
	}
}

func (m mapping) convert(item *gofeed.Item) types.RawArticle {
	return types.RawArticle{
		Title:       strings.TrimSpace(html.UnescapeString(item.Title)),
		Link:        firstNonEmpty(append([]string{item.Link}, item.Links...)),
		Description: firstNonEmpty(m.description(item)),
		PubDate:     firstNonEmpty(m.pubDate(item)),
	}
}

// asUTF8 relabels the XML declaration: raw is already decoded text, so a
// declared legacy charset would make the decoder transcode it twice.
func asUTF8(raw string) string {
	return encodingDecl.ReplaceAllString(raw, `${1}"UTF-8"`)
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func empty(func(types.RawArticle) bool) {}
