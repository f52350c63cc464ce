package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

const (
	// DefaultTTL is how long fetched upstream data is served from cache.
	DefaultTTL = 5 * time.Minute
	// DefaultTimeout bounds every upstream request.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies calm-news to upstream APIs.
	DefaultUserAgent = "calm-news/1.0"
)

// WorldFetcher returns the current top world stories.
type WorldFetcher interface {
	FetchWorld(ctx context.Context) ([]news.RawItem, error)
}

// RegionalFetcher returns the top story for a region. A nil item with a nil
// error means the region feed had no usable story.
type RegionalFetcher interface {
	FetchRegional(ctx context.Context, regionID int) (*news.RawItem, error)
}

// WeatherFetcher returns the current weather as a ready-to-read item.
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, cityName string, latitude, longitude float64) (news.RawItem, error)
}

// ErrFetch is matched by every upstream failure.
var ErrFetch = errors.New("upstream fetch failed")

// Error describes a failed upstream call. Status is zero for transport and
// decoding failures.
type Error struct {
	Source string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrFetch }

type settings struct {
	client    *http.Client
	ttl       time.Duration
	userAgent string
	logger    *log.Logger
}

// Option configures a fetcher.
type Option func(*settings)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.client = c }
}

// WithTTL sets the cache freshness used when reading fetched data.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) { s.ttl = ttl }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := settings{
		client:    &http.Client{Timeout: DefaultTimeout},
		ttl:       DefaultTTL,
		userAgent: DefaultUserAgent,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// getJSON performs a GET and decodes a JSON body into v.
func (s settings) getJSON(ctx context.Context, source, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &Error{Source: source, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return &Error{Source: source, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Source: source, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Source: source, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &Error{Source: source, Err: fmt.Errorf("failed to parse JSON: %w", err)}
	}
	return nil
}

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from upstream text and collapses whitespace.
func cleanText(s string) string {
	s = html.UnescapeString(textPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}
