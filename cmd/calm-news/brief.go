package main

import (
	"fmt"

	"github.com/ryosukesatoh/calm-news/internal/publisher"
	"github.com/ryosukesatoh/calm-news/internal/runner"
	"github.com/spf13/cobra"
)

func newBriefCmd(load loader) *cobra.Command {
	var (
		city   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Gibt das Briefing einer Stadt aus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			if city == "" {
				city = cfg.DefaultCity
			}

			var pub publisher.Publisher
			switch format {
			case "text":
				pub = publisher.NewStdoutPublisher(cmd.OutOrStdout())
			case "html":
				pub = publisher.NewHTMLPublisher(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format %q (want text or html)", format)
			}

			svc, err := newService(cfg, logger)
			if err != nil {
				return err
			}

			r := runner.New([]string{city}, svc, []publisher.Publisher{pub}, runner.WithLogger(logger))
			return r.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city id (default: default_city)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or html")
	return cmd
}
