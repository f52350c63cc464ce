package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ryosukesatoh/calm-news/internal/news"
	"github.com/ryosukesatoh/calm-news/internal/retry"
)

// DefaultSourceTimeout bounds one briefing request.
const DefaultSourceTimeout = 10 * time.Second

// ErrStaticExport is returned by a source in static-export mode, where no
// news API is deployed.
var ErrStaticExport = errors.New("player: static export has no news api")

// Source loads the briefing for a city.
type Source interface {
	Fetch(ctx context.Context, cityID string) (news.Response, error)
}

// APISource reads briefings from a calm-news server.
type APISource struct {
	baseURL string
	client  *http.Client
	static  bool
}

type SourceOption func(*APISource)

func WithSourceHTTPClient(c *http.Client) SourceOption {
	return func(s *APISource) { s.client = c }
}

// WithStaticExport makes every fetch fail so the player uses demo content.
func WithStaticExport(static bool) SourceOption {
	return func(s *APISource) { s.static = static }
}

func NewAPISource(baseURL string, opts ...SourceOption) *APISource {
	s := &APISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultSourceTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *APISource) Fetch(ctx context.Context, cityID string) (news.Response, error) {
	if s.static {
		return news.Response{}, ErrStaticExport
	}

	reqURL := s.baseURL + "/api/news?city=" + url.QueryEscape(cityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return news.Response{}, fmt.Errorf("player: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return news.Response{}, fmt.Errorf("player: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return news.Response{}, fmt.Errorf("player: %w", &retry.StatusError{Code: resp.StatusCode})
	}

	var out news.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return news.Response{}, fmt.Errorf("player: failed to parse JSON: %w", err)
	}
	return out, nil
}
