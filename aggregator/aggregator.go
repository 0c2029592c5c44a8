// Package aggregator merges several feeds into one recency-ordered list of
// articles.
package aggregator

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/scipunch/currentcapital/fetcher/types"
	"github.com/scipunch/currentcapital/parser"
	"github.com/scipunch/currentcapital/pubdate"
	"github.com/scipunch/currentcapital/summary"
)

// Aggregator fetches, parses and condenses articles from a list of feeds
type Aggregator struct {
	fetcher     types.Fetcher
	maxWords    int
	concurrency int
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithMaxWords bounds the length of every summary
func WithMaxWords(n int) Option {
	return func(a *Aggregator) {
		a.maxWords = n
	}
}

// WithConcurrency sets how many feeds are downloaded at once.
// Values below 1 mean sequential fetching.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = max(n, 1)
	}
}

// New creates an aggregator reading feeds through f
func New(f types.Fetcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher:     f,
		maxWords:    summary.DefaultMaxWords,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildArticles collects the articles of every feed in urls, newest first.
// Articles without a known date come last in the order they were found.
// A feed that cannot be fetched or parsed contributes nothing.
func (a *Aggregator) BuildArticles(ctx context.Context, urls []string) []types.Article {
	bodies := a.fetchAll(ctx, urls)

	var articles []types.Article
	for i, body := range bodies {
		before := len(articles)
		for item := range parser.Parse(body, "url", urls[i]) {
			if item.Title == "" || item.Link == "" {
				continue
			}
			articles = append(articles, a.build(item))
		}
		slog.Debug("feed processed", "url", urls[i], "articles", len(articles)-before)
	}

	slices.SortStableFunc(articles, newestFirst)
	slog.Info("articles built", "feeds", len(urls), "articles", len(articles))
	return articles
}

// fetchAll downloads every feed, keeping bodies in source order
func (a *Aggregator) fetchAll(ctx context.Context, urls []string) []string {
	bodies := make([]string, len(urls))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, url := range urls {
		g.Go(func() error {
			bodies[i] = a.fetcher.Fetch(ctx, url)
			return nil
		})
	}
	_ = g.Wait()

	return bodies
}

func (a *Aggregator) build(item types.RawArticle) types.Article {
	text := item.Description
	if text == "" {
		text = item.Title
	}
	return types.Article{
		Title:   item.Title,
		Link:    item.Link,
		Summary: summary.Summarize(text, a.maxWords),
		PubDate: pubdate.Parse(item.PubDate),
	}
}

// newestFirst orders known dates descending and puts unknown dates last
func newestFirst(x, y types.Article) int {
	switch {
	case x.PubDate == nil && y.PubDate == nil:
		return 0
	case x.PubDate == nil:
		return 1
	case y.PubDate == nil:
		return -1
	default:
		return y.PubDate.Compare(*x.PubDate)
	}
}
