package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/news"
	"github.com/ryosukesatoh/calm-news/internal/publisher"
)

// NewsService builds the briefing for a city.
type NewsService interface {
	News(ctx context.Context, cityID string) news.Response
}

// Runner orchestrates the aggregate -> publish pipeline for a set of cities.
// Running it on a schedule keeps the upstream and simplification caches warm.
type Runner struct {
	cities     []string
	service    NewsService
	publishers []publisher.Publisher
	logger     *log.Logger
	now        func() time.Time
}

type Option func(*Runner)

func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func New(cityIDs []string, svc NewsService, pubs []publisher.Publisher, opts ...Option) *Runner {
	r := &Runner{
		cities:     cityIDs,
		service:    svc,
		publishers: pubs,
		logger:     log.New(io.Discard),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the pipeline once for every city.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("starting briefing run", "cities", len(r.cities))

	var errs []error
	for _, id := range r.cities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runCity(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	r.logger.Info("briefing run completed")
	return nil
}

func (r *Runner) runCity(ctx context.Context, id string) error {
	city, ok := cities.Lookup(id)
	if !ok {
		return fmt.Errorf("runner: unknown city %q", id)
	}

	resp := r.service.News(ctx, id)
	r.logger.Debug("aggregated news", "city", id, "items", len(resp.News), "live", resp.IsLive)
	b := publisher.NewBriefing(city, resp, r.now())

	// Continue with other publishers even if one fails
	var publishErrors []error
	for _, pub := range r.publishers {
		if err := pub.Publish(ctx, b); err != nil {
			publishError := fmt.Errorf("publish via %T failed: %w", pub, err)
			publishErrors = append(publishErrors, publishError)
			r.logger.Warn("publisher failed", "city", id, "err", publishError)
		}
	}

	if len(publishErrors) == len(r.publishers) && len(r.publishers) > 0 {
		return fmt.Errorf("runner: all publishers failed for %s: %w", id, errors.Join(publishErrors...))
	}
	return nil
}

// Schedule registers Run on c with a standard cron expression.
func (r *Runner) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		r.logger.Debug("cron triggered briefing run")
		if err := r.Run(ctx); err != nil {
			r.logger.Error("scheduled run failed", "err", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("runner: invalid schedule %q: %w", spec, err)
	}
	return id, nil
}
