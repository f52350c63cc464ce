package main

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/ryosukesatoh/calm-news/internal/aggregator"
	"github.com/ryosukesatoh/calm-news/internal/cache"
	"github.com/ryosukesatoh/calm-news/internal/config"
	"github.com/ryosukesatoh/calm-news/internal/fetcher"
	"github.com/ryosukesatoh/calm-news/internal/simplifier"
	"github.com/spf13/cobra"
)

// loader reads the configuration named by --config and builds the logger.
type loader func(cmd *cobra.Command) (*config.Config, *log.Logger, error)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "calm-news",
		Short: "Ruhige Nachrichten für die sechzehn Landeshauptstädte",
		Long: `calm-news sammelt Welt- und Regionalnachrichten der tagesschau und das
Wetter von Open-Meteo, formuliert sie in einfacher Sprache und liest sie vor.

Befehle:
  serve   - HTTP-Server mit /api/news und Briefing-Seite
  brief   - Briefing einer Stadt ausgeben
  listen  - Briefing vorlesen lassen
  cities  - Verfügbare Städte anzeigen`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: defaults and environment)")

	load := func(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		logger, err := newLogger(cmd, cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return cfg, logger, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newBriefCmd(load),
		newListenCmd(load),
		newCitiesCmd(),
		newVersionCmd(),
	)
	return root
}

func newLogger(cmd *cobra.Command, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("config: invalid log_level %q: %w", level, err)
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "calm-news",
	}), nil
}

// newService wires fetchers, caches and the simplifier into the aggregator.
func newService(cfg *config.Config, logger *log.Logger) (*aggregator.Service, error) {
	upstream := cache.New(cache.WithName("upstream"))
	simplified := cache.New(cache.WithName("simplified"))

	opts := []fetcher.Option{
		fetcher.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
		fetcher.WithTTL(cfg.Cache.FetchTTL),
		fetcher.WithUserAgent(cfg.Upstream.UserAgent),
		fetcher.WithLogger(logger),
	}

	tagesschau := fetcher.NewTagesschauFetcher(cfg.Upstream.TagesschauURL, cfg.World.Count, upstream, opts...)
	weather := fetcher.NewOpenMeteoFetcher(cfg.Upstream.OpenMeteoURL, upstream, opts...)

	var world fetcher.WorldFetcher = tagesschau
	if cfg.World.Source == config.WorldSourceRSS {
		world = fetcher.NewRSSFetcher(cfg.World.Feeds, cfg.World.Count, upstream, opts...)
	}

	model, err := simplifier.NewModel(cfg.Simplifier, logger)
	if err != nil {
		return nil, err
	}
	if model == nil {
		logger.Info("no API key configured, serving shortened original text")
	}
	simp := simplifier.New(model, simplified,
		simplifier.WithTTL(cfg.Cache.SimplifiedTTL),
		simplifier.WithLogger(logger),
	)

	return aggregator.New(world, tagesschau, weather, simp,
		aggregator.WithDefaultCity(cfg.DefaultCity),
		aggregator.WithLogger(logger),
	), nil
}
