package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Markets</title>
    <link>https://example.com</link>
    <item>
      <title>Stocks &lt;b&gt;rally&lt;/b&gt; on rate hopes</title>
      <link>https://example.com/1</link>
      <description>&lt;p&gt;Equities climbed.&lt;/p&gt;</description>
      <pubDate>Mon, 06 Jan 2025 09:30:00 GMT</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://example.com/2</link>
    </item>
    <item>
      <title>Oil slides on demand fears</title>
      <link>https://example.com/3</link>
    </item>
    <item>
      <title>Dollar steady ahead of jobs data</title>
      <link>https://example.com/4</link>
    </item>
  </channel>
</rss>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Quiet Feed</title></channel></rss>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestFetcher() *FeedFetcher {
	return NewFeedFetcher(5*time.Second, zap.NewNop())
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ordered entries with metadata", func(t *testing.T) {
		server := serveFeed(t, rssFeed)
		fetcher := newTestFetcher()

		entries, err := fetcher.Fetch(ctx, server.URL, 0)

		require.NoError(t, err)
		require.Len(t, entries, 3) // title-less entry dropped

		first := entries[0]
		assert.Equal(t, "Stocks rally on rate hopes", first.Title) // tags stripped
		assert.Equal(t, "https://example.com/1", first.Link)
		assert.Equal(t, "Equities climbed.", first.Summary)
		assert.Equal(t, "Example Markets", first.Source)
		assert.Equal(t, 2025, first.Published.Year())

		assert.Equal(t, "Oil slides on demand fears", entries[1].Title)
		assert.Equal(t, "Dollar steady ahead of jobs data", entries[2].Title)
	})

	t.Run("missing published falls back to now", func(t *testing.T) {
		server := serveFeed(t, rssFeed)
		fetcher := newTestFetcher()

		entries, err := fetcher.Fetch(ctx, server.URL, 0)

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), entries[1].Published, time.Minute)
	})

	t.Run("caps entries at max", func(t *testing.T) {
		server := serveFeed(t, rssFeed)
		fetcher := newTestFetcher()

		entries, err := fetcher.Fetch(ctx, server.URL, 2)

		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("empty feed yields empty slice, not an error", func(t *testing.T) {
		server := serveFeed(t, emptyFeed)
		fetcher := newTestFetcher()

		entries, err := fetcher.Fetch(ctx, server.URL, 0)

		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("URL without scheme", func(t *testing.T) {
		fetcher := newTestFetcher()

		_, err := fetcher.Fetch(ctx, "example.com/feed.rss", 0)

		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("URL without host", func(t *testing.T) {
		fetcher := newTestFetcher()

		_, err := fetcher.Fetch(ctx, "https://", 0)

		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unreachable feed", func(t *testing.T) {
		fetcher := NewFeedFetcher(500*time.Millisecond, zap.NewNop())

		_, err := fetcher.Fetch(ctx, "http://127.0.0.1:1/feed.rss", 0)

		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestValidateFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("true for a working feed", func(t *testing.T) {
		server := serveFeed(t, rssFeed)

		assert.True(t, newTestFetcher().Validate(ctx, server.URL))
	})

	t.Run("false for a broken URL, swallowing the error", func(t *testing.T) {
		assert.False(t, newTestFetcher().Validate(ctx, "not a url"))
	})

	t.Run("false for garbage content", func(t *testing.T) {
		server := serveFeed(t, "this is not xml")

		assert.False(t, newTestFetcher().Validate(ctx, server.URL))
	})
}
