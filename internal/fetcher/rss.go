package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/ryosukesatoh/calm-news/internal/cache"
	"github.com/ryosukesatoh/calm-news/internal/metrics"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

// DefaultRSSFeeds are read when no feeds are configured.
var DefaultRSSFeeds = []string{
	"https://www.tagesschau.de/xml/rss2/",
	"https://rss.sueddeutsche.de/rss/Topthemen",
}

const (
	// DefaultRSSCount caps the number of RSS stories across all feeds.
	DefaultRSSCount = 5
	perFeedLimit    = 3
	untitled        = "Ohne Titel"
)

// RSSFetcher reads world stories from RSS feeds instead of the JSON API.
type RSSFetcher struct {
	settings
	feeds  []string
	count  int
	cache  *cache.Cache
	parser *gofeed.Parser
}

func NewRSSFetcher(feeds []string, count int, c *cache.Cache, opts ...Option) *RSSFetcher {
	if len(feeds) == 0 {
		feeds = DefaultRSSFeeds
	}
	if count <= 0 {
		count = DefaultRSSCount
	}
	s := newSettings(opts)
	parser := gofeed.NewParser()
	parser.Client = s.client
	parser.UserAgent = s.userAgent
	return &RSSFetcher{
		settings: s,
		feeds:    feeds,
		count:    count,
		cache:    c,
		parser:   parser,
	}
}

// FetchWorld reads every feed in order. A failing feed is skipped; the call
// only fails when no feed could be read.
func (f *RSSFetcher) FetchWorld(ctx context.Context) ([]news.RawItem, error) {
	if cached, ok := cache.Get[[]news.RawItem](f.cache, worldNewsKey, f.ttl); ok {
		metrics.RecordUpstream("rss", "cached")
		return cached, nil
	}

	var items []news.RawItem
	var errs []error
	for _, feedURL := range f.feeds {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			f.logger.Warn("failed to read feed", "url", feedURL, "err", err)
			metrics.RecordUpstream("rss", "error")
			errs = append(errs, fmt.Errorf("%s: %w", feedURL, err))
			continue
		}
		metrics.RecordUpstream("rss", "ok")

		for i, entry := range feed.Items {
			if i == perFeedLimit {
				break
			}
			items = append(items, rssItem(entry))
		}
	}

	if len(errs) == len(f.feeds) {
		return nil, &Error{Source: "rss", Err: errors.Join(errs...)}
	}

	if len(items) > f.count {
		items = items[:f.count]
	}
	cache.Set(f.cache, worldNewsKey, items)
	return items, nil
}

func rssItem(entry *gofeed.Item) news.RawItem {
	title := cleanText(entry.Title)
	if title == "" {
		title = untitled
	}
	content := cleanText(entry.Description)
	if content == "" {
		content = cleanText(entry.Content)
	}
	return news.RawItem{
		Headline:        title,
		Summary:         content,
		Type:            news.TypeWorld,
		OriginalTitle:   title,
		OriginalSummary: content,
	}
}
