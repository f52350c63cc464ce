// Package simplifier rewrites news items into plain, calm German with one
// batched language model request per call, caching every rewrite by content.
package simplifier

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/ryosukesatoh/calm-news/internal/cache"
	"github.com/ryosukesatoh/calm-news/internal/metrics"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

// DefaultTTL is how long a rewrite is reused.
const DefaultTTL = 60 * time.Minute

// TruncateLimit is the summary length used when no model is configured.
const TruncateLimit = 200

// Model completes a single prompt.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Simplifier batches uncached items into one model request.
type Simplifier struct {
	model  Model
	cache  *cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// Option configures a Simplifier.
type Option func(*Simplifier)

func WithTTL(ttl time.Duration) Option {
	return func(s *Simplifier) { s.ttl = ttl }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simplifier) { s.logger = l }
}

// New creates a Simplifier. A nil model disables rewriting; items are then
// returned verbatim with truncated summaries.
func New(model Model, c *cache.Cache, opts ...Option) *Simplifier {
	s := &Simplifier{
		model:  model,
		cache:  c,
		ttl:    DefaultTTL,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheKey identifies a rewrite by the original title and summary.
func CacheKey(title, summary string) string {
	return fmt.Sprintf("simplified_%016x", xxhash.Sum64String(title+"\x00"+summary))
}

// Simplify never fails. Non-weather items keep their input order and weather
// items are appended last. When the model call fails every item is returned
// with its original text in input order.
func (s *Simplifier) Simplify(ctx context.Context, items []news.RawItem) []news.Item {
	if s.model == nil {
		return verbatim(items)
	}

	var body, weather []news.RawItem
	for _, item := range items {
		if item.Type == news.TypeWeather {
			weather = append(weather, item)
		} else {
			body = append(body, item)
		}
	}

	results := make([]news.Item, len(body))
	resolved := make([]bool, len(body))
	var pending []int
	for i, item := range body {
		if !item.Simplifiable() {
			results[i] = item.Item()
			resolved[i] = true
			continue
		}
		if cached, ok := cache.Get[news.Item](s.cache, CacheKey(item.OriginalTitle, item.OriginalSummary), s.ttl); ok {
			cached.Type = item.Type
			results[i] = cached
			resolved[i] = true
			continue
		}
		pending = append(pending, i)
	}

	if len(pending) > 0 {
		batch := make([]news.RawItem, len(pending))
		for j, i := range pending {
			batch[j] = body[i]
		}

		reply, err := s.model.Complete(ctx, BuildPrompt(batch))
		if err != nil {
			s.logger.Warn("simplification failed, serving original text", "items", len(batch), "err", err)
			metrics.RecordModelCall("error")
			metrics.RecordSimplified("original", len(items))
			return original(items)
		}
		metrics.RecordModelCall("ok")

		rewrites := ParseReply(reply, len(batch))
		for j, i := range pending {
			item := body[i]
			out := news.Item{Headline: rewrites[j].Headline, Summary: rewrites[j].Summary, Type: item.Type}
			if out.Headline == "" {
				out.Headline = item.Headline
			}
			if out.Summary == "" {
				out.Summary = item.Summary
			}
			cache.Set(s.cache, CacheKey(item.OriginalTitle, item.OriginalSummary), out)
			results[i] = out
		}
		metrics.RecordSimplified("model", len(pending))
		s.logger.Debug("simplified items", "new", len(pending), "cached", len(body)-len(pending))
	}
	metrics.RecordSimplified("cache", countCached(resolved, body))

	for _, item := range weather {
		results = append(results, item.Item())
	}
	return results
}

func countCached(resolved []bool, body []news.RawItem) int {
	n := 0
	for i, ok := range resolved {
		if ok && body[i].Simplifiable() {
			n++
		}
	}
	return n
}

func original(items []news.RawItem) []news.Item {
	out := make([]news.Item, len(items))
	for i, item := range items {
		out[i] = item.Item()
	}
	return out
}

// verbatim keeps input order and shortens the summaries of items that would
// otherwise have been rewritten.
func verbatim(items []news.RawItem) []news.Item {
	out := make([]news.Item, len(items))
	for i, item := range items {
		out[i] = item.Item()
		if item.Simplifiable() {
			out[i].Summary = Truncate(item.Summary, TruncateLimit)
		}
	}
	metrics.RecordSimplified("verbatim", len(items))
	return out
}

// Truncate cuts s to at most limit runes and marks the cut with "...".
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
