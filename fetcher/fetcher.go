package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single feed request.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "Mozilla/5.0"

	maxBodySize = 10 << 20
	acceptFeeds = "application/rss+xml, application/atom+xml, application/xml, text/xml, */*"
)

// HTTPFetcher downloads feeds with a plain GET request
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher sending userAgent with every request.
// A zero timeout falls back to DefaultTimeout.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch returns the feed body as text, or an empty string if anything
// goes wrong. Failures are logged with the offending URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) string {
	body, err := f.get(ctx, url)
	if err != nil {
		slog.Error("failed to fetch feed", "url", url, "error", err)
		return ""
	}
	return body
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request with %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptFeeds)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	blob, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read body with %w", err)
	}
	if len(blob) > maxBodySize {
		return "", fmt.Errorf("feed body exceeds %d bytes", maxBodySize)
	}

	// Invalid UTF-8 is dropped rather than rejected
	return strings.ToValidUTF8(string(blob), ""), nil
}
