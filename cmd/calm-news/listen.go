package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/config"
	"github.com/ryosukesatoh/calm-news/internal/player"
	"github.com/ryosukesatoh/calm-news/internal/speech"
	"github.com/ryosukesatoh/calm-news/internal/tui"
	"github.com/spf13/cobra"
)

func newListenCmd(load loader) *cobra.Command {
	var (
		cityID string
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Liest das Briefing einer Stadt vor",
		Long: `Liest das Briefing einer Stadt vor.

Tasten:
  Leertaste - Pause / Fortsetzen
  ← / →     - Vorherige / nächste Meldung
  s         - Stopp
  Enter     - Abspielen
  q         - Beenden`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			if cityID == "" {
				cityID = cfg.DefaultCity
			}
			city, ok := cities.Lookup(cityID)
			if !ok {
				return fmt.Errorf("unknown city %q", cityID)
			}

			out := io.Discard
			if plain {
				out = cmd.OutOrStdout()
			} else {
				// log lines would tear the full-screen view
				logger.SetOutput(io.Discard)
			}

			engine := speech.NewConsoleEngine(out, speech.WithWordsPerMinute(cfg.Player.WordsPerMinute))
			source := player.NewAPISource(cfg.Player.APIURL, player.WithStaticExport(cfg.StaticExport))
			p := player.New(engine, source,
				player.WithSettings(playerSettings(cfg.Player)),
				player.WithLogger(logger),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go p.Run(ctx)

			if plain {
				return listenPlain(ctx, cmd.OutOrStdout(), p, city)
			}

			_, err = tea.NewProgram(tui.NewApp(p, city), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cityID, "city", "", "city id (default: default_city)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the narration instead of the terminal UI")
	return cmd
}

func playerSettings(cfg config.PlayerConfig) player.Settings {
	return player.Settings{
		Language: cfg.Language,
		Rate:     cfg.Rate,
		Pitch:    cfg.Pitch,
		Volume:   cfg.Volume,
		Pause:    cfg.Pause,
	}
}

// listenPlain plays the briefing once and returns when playback is over.
func listenPlain(ctx context.Context, w io.Writer, p *player.Player, city cities.City) error {
	finished := make(chan player.Snapshot, 1)
	var once sync.Once
	started := false
	p.OnChange(func(s player.Snapshot) {
		if s.State != player.Idle {
			started = true
			return
		}
		if started {
			once.Do(func() { finished <- s })
		}
	})

	fmt.Fprintf(w, "Nachrichten für %s (Stimme: %s)\n", city.Name, p.Voice().Name)
	p.Start(city.ID)

	select {
	case <-ctx.Done():
		return nil
	case s := <-finished:
		if s.Err != "" {
			return fmt.Errorf("%s", s.Err)
		}
		return nil
	}
}
