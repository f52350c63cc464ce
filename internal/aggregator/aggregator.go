// Package aggregator assembles the briefing for a city from the three
// upstream sources and never fails: every broken step is replaced by demo
// content and reported through the live flag.
package aggregator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/demo"
	"github.com/ryosukesatoh/calm-news/internal/fetcher"
	"github.com/ryosukesatoh/calm-news/internal/metrics"
	"github.com/ryosukesatoh/calm-news/internal/news"
	"golang.org/x/sync/errgroup"
)

// leadWorld is the number of world items read before the local story.
const leadWorld = 3

// Simplifier rewrites raw items. Implementations never fail.
type Simplifier interface {
	Simplify(ctx context.Context, items []news.RawItem) []news.Item
}

type Service struct {
	world       fetcher.WorldFetcher
	regional    fetcher.RegionalFetcher
	weather     fetcher.WeatherFetcher
	simplifier  Simplifier
	defaultCity string
	logger      *log.Logger
}

type Option func(*Service)

func WithDefaultCity(id string) Option {
	return func(s *Service) { s.defaultCity = id }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(world fetcher.WorldFetcher, regional fetcher.RegionalFetcher, weather fetcher.WeatherFetcher, simplifier Simplifier, opts ...Option) *Service {
	s := &Service{
		world:       world,
		regional:    regional,
		weather:     weather,
		simplifier:  simplifier,
		defaultCity: cities.DefaultID,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// News returns the briefing for cityID. Unknown ids get the default city's
// demo briefing.
func (s *Service) News(ctx context.Context, cityID string) (resp news.Response) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("news aggregation panicked, serving demo content", "city", cityID, "panic", r)
			resp = news.Response{News: demo.News(cityID), IsLive: false}
		}
		metrics.RecordAggregation(resp.IsLive, time.Since(start).Seconds())
	}()

	city, ok := cities.Lookup(cityID)
	if !ok {
		s.logger.Info("unknown city, serving demo content", "city", cityID, "default", s.defaultCity)
		return news.Response{News: demo.News(s.defaultCity), IsLive: false}
	}

	raw, live := s.collect(ctx, city)
	return news.Response{News: s.simplifier.Simplify(ctx, raw), IsLive: live}
}

// collect runs the three fetches concurrently. Each goroutine records its own
// outcome and returns nil, so one failure never cancels the others.
func (s *Service) collect(ctx context.Context, city cities.City) ([]news.RawItem, bool) {
	var (
		world                             []news.RawItem
		local                             *news.RawItem
		weather                           news.RawItem
		worldErr, regionalErr, weatherErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		worldErr = guard("world", func() (err error) {
			world, err = s.world.FetchWorld(ctx)
			return err
		})
		return nil
	})
	g.Go(func() error {
		regionalErr = guard("regional", func() (err error) {
			local, err = s.regional.FetchRegional(ctx, city.RegionID)
			return err
		})
		return nil
	})
	g.Go(func() error {
		weatherErr = guard("weather", func() (err error) {
			weather, err = s.weather.FetchWeather(ctx, city.Name, city.Latitude, city.Longitude)
			return err
		})
		return nil
	})
	_ = g.Wait()

	live := true
	if worldErr != nil {
		s.logger.Warn("world news fetch failed", "err", worldErr)
		world, live = nil, false
	}
	if len(world) == 0 {
		world = demo.WorldFallback()
	}

	if regionalErr != nil {
		s.logger.Warn("regional news fetch failed", "city", city.ID, "region", city.RegionID, "err", regionalErr)
		local, live = nil, false
	}
	if local == nil {
		fallback := demo.LocalFallback(city.ID)
		local = &fallback
	}

	if weatherErr != nil {
		s.logger.Warn("weather fetch failed", "city", city.ID, "err", weatherErr)
		weather, live = demo.WeatherFallback(city.ID), false
	}

	return Order(world, *local, weather), live
}

// Order places up to three world items first, then the local story, then the
// remaining world items, and the weather last.
func Order(world []news.RawItem, local, weather news.RawItem) []news.RawItem {
	head, tail := world, []news.RawItem(nil)
	if len(world) > leadWorld {
		head, tail = world[:leadWorld], world[leadWorld:]
	}

	out := make([]news.RawItem, 0, len(world)+2)
	out = append(out, head...)
	out = append(out, local)
	out = append(out, tail...)
	return append(out, weather)
}

// guard turns a panic inside fn into an error for that source.
func guard(source string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", source, r)
		}
	}()
	return fn()
}
