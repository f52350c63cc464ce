// Package server exposes the news aggregation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/demo"
	"github.com/ryosukesatoh/calm-news/internal/news"
	"github.com/ryosukesatoh/calm-news/internal/publisher"
)

// NewsService builds the briefing for a city. It never fails.
type NewsService interface {
	News(ctx context.Context, cityID string) news.Response
}

type Server struct {
	addr        string
	echo        *echo.Echo
	service     NewsService
	defaultCity string
	static      bool
	logger      *log.Logger
	now         func() time.Time
}

type Option func(*Server)

// WithStaticExport leaves /api/news unmounted and renders demo content only.
func WithStaticExport(static bool) Option {
	return func(s *Server) { s.static = static }
}

func WithDefaultCity(id string) Option {
	return func(s *Server) { s.defaultCity = id }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(addr string, svc NewsService, opts ...Option) *Server {
	s := &Server{
		addr:        addr,
		service:     svc,
		defaultCity: cities.DefaultID,
		logger:      log.New(io.Discard),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request", "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID)
			return nil
		},
	}))

	e.GET("/", s.handleIndex)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if !s.static {
		e.GET("/api/news", s.handleNews)
	}

	s.echo = e
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins serving HTTP in the background. Call Shutdown to stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: failed to listen on %s: %w", s.addr, err)
	}
	s.echo.Listener = ln
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String(), "static", s.static)
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "err", err)
		}
	}()
	return nil
}

// Addr reports the bound address once Start has returned.
func (s *Server) Addr() string {
	if s.echo.Listener == nil {
		return s.addr
	}
	return s.echo.Listener.Addr().String()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) cityParam(c echo.Context) string {
	if id := c.QueryParam("city"); id != "" {
		return id
	}
	return s.defaultCity
}

// handleNews always answers 200. If the service itself breaks down the
// listener gets the "being prepared" notice instead of an error page.
func (s *Server) handleNews(c echo.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("news service panicked", "panic", r)
			err = c.JSON(http.StatusOK, news.Response{News: demo.Unavailable(), IsLive: false})
		}
	}()

	resp := s.service.News(c.Request().Context(), s.cityParam(c))
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(c echo.Context) error {
	id := s.cityParam(c)
	city, ok := cities.Lookup(id)
	if !ok {
		if city, ok = cities.Lookup(s.defaultCity); !ok {
			city = cities.Default()
		}
	}

	var resp news.Response
	if s.static {
		resp = news.Response{News: demo.News(city.ID), IsLive: false}
	} else {
		resp = s.service.News(c.Request().Context(), id)
	}

	return c.HTML(http.StatusOK, publisher.RenderHTML(publisher.NewBriefing(city, resp, s.now())))
}
