package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ryosukesatoh/calm-news/internal/publisher"
	"github.com/ryosukesatoh/calm-news/internal/runner"
	"github.com/ryosukesatoh/calm-news/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Startet den HTTP-Server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}

			svc, err := newService(cfg, logger)
			if err != nil {
				return err
			}

			srv := server.New(cfg.Server.Addr, svc,
				server.WithStaticExport(cfg.StaticExport),
				server.WithDefaultCity(cfg.DefaultCity),
				server.WithLogger(logger),
			)
			if err := srv.Start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Prefetch runs keep the upstream and rewrite caches warm.
			var c *cron.Cron
			if cfg.Prefetch.Enabled && !cfg.StaticExport {
				r := runner.New(cfg.Prefetch.Cities, svc,
					[]publisher.Publisher{publisher.NewLogPublisher(logger)},
					runner.WithLogger(logger),
				)
				c = cron.New()
				if _, err := r.Schedule(ctx, c, cfg.Prefetch.Schedule); err != nil {
					return err
				}
				c.Start()
				logger.Info("scheduled prefetch", "schedule", cfg.Prefetch.Schedule, "cities", len(cfg.Prefetch.Cities))

				go func() {
					if err := r.Run(ctx); err != nil {
						logger.Warn("initial prefetch failed", "err", err)
					}
				}()
			}

			<-ctx.Done()
			logger.Info("shutting down")

			if c != nil {
				<-c.Stop().Done()
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", "err", err)
				return err
			}
			logger.Info("shutdown complete")
			return nil
		},
	}
}
