package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// FeedFetcher reads headlines from RSS/Atom feeds.
type FeedFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
	log     *zap.Logger
}

// NewFeedFetcher creates a fetcher with a fixed network timeout per feed.
func NewFeedFetcher(timeout time.Duration, log *zap.Logger) *FeedFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FeedFetcher{
		parser:  gofeed.NewParser(),
		timeout: timeout,
		log:     log,
	}
}

// Fetch parses the feed at rawURL and returns its entries in feed order,
// capped at max when max is positive. Entries without a usable title are
// dropped; a missing published timestamp falls back to the current time.
// An empty feed yields an empty slice, not an error.
func (f *FeedFetcher) Fetch(ctx context.Context, rawURL string, max int) ([]entity.FeedEntry, error) {
	if err := validateFeedURL(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(rawURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching feed %s: %v", service.ErrNotFound, rawURL, err)
	}

	if feed.FeedType == "" {
		// gofeed parsed it anyway; note the oddity and keep going.
		f.log.Warn("Feed is malformed but parseable", zap.String("url", rawURL))
	}

	source := strings.TrimSpace(feed.Title)
	entries := make([]entity.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := cleanText(item.Title)
		if title == "" {
			continue
		}

		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		entries = append(entries, entity.FeedEntry{
			Title:     title,
			Link:      item.Link,
			Published: published,
			Summary:   cleanText(item.Description),
			Source:    source,
		})
		if max > 0 && len(entries) >= max {
			break
		}
	}

	f.log.Info("Fetched feed",
		zap.String("url", rawURL),
		zap.Int("entries", len(entries)))
	return entries, nil
}

// Validate fetches at most one entry and reports whether the feed is usable,
// swallowing every error.
func (f *FeedFetcher) Validate(ctx context.Context, rawURL string) bool {
	entries, err := f.Fetch(ctx, rawURL, 1)
	return err == nil && entries != nil
}

// validateFeedURL requires an absolute http(s) URL with a host.
func validateFeedURL(rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: invalid feed URL: %v", service.ErrInvalidInput, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: feed URL must include scheme and host: %q",
			service.ErrInvalidInput, rawURL)
	}
	return nil
}

// cleanText strips HTML tags and collapses surrounding whitespace.
func cleanText(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}
