package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryosukesatoh/calm-news/internal/cache"
	"github.com/ryosukesatoh/calm-news/internal/metrics"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

// DefaultTagesschauURL is the base of the tagesschau JSON API.
const DefaultTagesschauURL = "https://www.tagesschau.de/api2u"

// DefaultWorldCount is how many world stories are taken from the homepage.
const DefaultWorldCount = 3

const worldNewsKey = "world_news"

// tagesschau JSON structures

type tagesschauStory struct {
	SophoraID     string `json:"sophoraId"`
	Title         string `json:"title"`
	Topline       string `json:"topline"`
	FirstSentence string `json:"firstSentence"`
	Date          string `json:"date"`
	RegionID      int    `json:"regionId"`
	Ressort       string `json:"ressort"`
	Type          string `json:"type"`
	ShareURL      string `json:"shareURL"`
}

type tagesschauResponse struct {
	News     []tagesschauStory `json:"news"`
	Regional []tagesschauStory `json:"regional"`
}

// summary prefers the first sentence over the topline.
func (s tagesschauStory) summary() string {
	if fs := cleanText(s.FirstSentence); fs != "" {
		return fs
	}
	return cleanText(s.Topline)
}

// usable reports whether the entry is a real article with a title and a summary.
func (s tagesschauStory) usable() bool {
	return s.Type == "story" && cleanText(s.Title) != "" && s.summary() != ""
}

func (s tagesschauStory) rawItem(t news.Type) news.RawItem {
	title := cleanText(s.Title)
	summary := s.summary()
	return news.RawItem{
		Headline:        title,
		Summary:         summary,
		Type:            t,
		OriginalTitle:   title,
		OriginalSummary: summary,
	}
}

// TagesschauFetcher reads world and regional stories from the tagesschau API.
type TagesschauFetcher struct {
	settings
	baseURL string
	count   int
	cache   *cache.Cache
}

func NewTagesschauFetcher(baseURL string, count int, c *cache.Cache, opts ...Option) *TagesschauFetcher {
	if baseURL == "" {
		baseURL = DefaultTagesschauURL
	}
	if count <= 0 {
		count = DefaultWorldCount
	}
	return &TagesschauFetcher{
		settings: newSettings(opts),
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		count:    count,
		cache:    c,
	}
}

// FetchWorld returns up to count stories from the homepage feed.
func (f *TagesschauFetcher) FetchWorld(ctx context.Context) ([]news.RawItem, error) {
	if cached, ok := cache.Get[[]news.RawItem](f.cache, worldNewsKey, f.ttl); ok {
		metrics.RecordUpstream("tagesschau_world", "cached")
		return cached, nil
	}

	var resp tagesschauResponse
	if err := f.getJSON(ctx, "tagesschau", f.baseURL+"/homepage/", &resp); err != nil {
		metrics.RecordUpstream("tagesschau_world", "error")
		return nil, err
	}

	items := make([]news.RawItem, 0, f.count)
	for _, story := range resp.News {
		if len(items) == f.count {
			break
		}
		if !story.usable() {
			continue
		}
		items = append(items, story.rawItem(news.TypeWorld))
	}

	metrics.RecordUpstream("tagesschau_world", "ok")
	f.logger.Debug("fetched world news", "stories", len(resp.News), "usable", len(items))
	cache.Set(f.cache, worldNewsKey, items)
	return items, nil
}

// FetchRegional returns the first usable story of the region feed.
func (f *TagesschauFetcher) FetchRegional(ctx context.Context, regionID int) (*news.RawItem, error) {
	key := fmt.Sprintf("regional_news_%d", regionID)
	// A cached nil records a region without a usable story.
	if cached, ok := cache.Get[*news.RawItem](f.cache, key, f.ttl); ok {
		metrics.RecordUpstream("tagesschau_regional", "cached")
		if cached == nil {
			return nil, nil
		}
		item := *cached
		return &item, nil
	}

	reqURL := fmt.Sprintf("%s/news/?regions=%d", f.baseURL, regionID)
	var resp tagesschauResponse
	if err := f.getJSON(ctx, "tagesschau", reqURL, &resp); err != nil {
		metrics.RecordUpstream("tagesschau_regional", "error")
		return nil, err
	}

	for _, story := range resp.News {
		if !story.usable() {
			continue
		}
		item := story.rawItem(news.TypeLocal)
		metrics.RecordUpstream("tagesschau_regional", "ok")
		stored := item
		cache.Set(f.cache, key, &stored)
		return &item, nil
	}

	metrics.RecordUpstream("tagesschau_regional", "empty")
	f.logger.Debug("regional feed has no usable story", "region", regionID)
	cache.Set[*news.RawItem](f.cache, key, nil)
	return nil, nil
}
