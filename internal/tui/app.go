// Package tui is the terminal front end of the listen command.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/news"
	"github.com/ryosukesatoh/calm-news/internal/player"
)

// Controller is the part of the player the UI drives.
type Controller interface {
	Start(cityID string)
	TogglePause()
	Next()
	Previous()
	Stop()
	Snapshot() player.Snapshot
	OnChange(fn func(player.Snapshot))
}

type changedMsg struct{}

const defaultWidth = 72

type App struct {
	ctl     Controller
	city    cities.City
	changes chan struct{}
	snap    player.Snapshot
	width   int
}

// NewApp subscribes to ctl. The player must be running before the
// program starts.
func NewApp(ctl Controller, city cities.City) *App {
	a := &App{
		ctl:     ctl,
		city:    city,
		changes: make(chan struct{}, 1),
		width:   defaultWidth,
	}
	ctl.OnChange(func(player.Snapshot) {
		select {
		case a.changes <- struct{}{}:
		default:
		}
	})
	return a
}

func (a *App) Init() tea.Cmd {
	ctl, id := a.ctl, a.city.ID
	return tea.Batch(
		func() tea.Msg {
			ctl.Start(id)
			return nil
		},
		a.waitForChange(),
	)
}

func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case changedMsg:
		a.snap = a.ctl.Snapshot()
		return a, a.waitForChange()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		a.ctl.Stop()
		return a, tea.Quit
	case " ", "p":
		a.ctl.TogglePause()
	case "n", "right":
		a.ctl.Next()
	case "b", "left":
		a.ctl.Previous()
	case "s":
		a.ctl.Stop()
	case "enter", "r":
		a.ctl.Start(a.city.ID)
	}
	return a, nil
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Nachrichten für %s", a.city.Name)))
	b.WriteString("\n")
	b.WriteString(stateStyle.Render(stateLabel(a.snap)))
	b.WriteString("\n\n")

	if a.snap.Err != "" {
		b.WriteString(errorStyle.Render(a.snap.Err))
		b.WriteString("\n\n")
	}
	if len(a.snap.Items) > 0 && !a.snap.IsLive {
		b.WriteString(noticeStyle.Render("Beispielnachrichten: die aktuellen Meldungen sind gerade nicht erreichbar."))
		b.WriteString("\n\n")
	}

	if item, ok := a.snap.Current(); ok {
		body := lipgloss.NewStyle().Bold(true).Render(item.Headline) + "\n" + item.Summary
		b.WriteString(currentStyle.Width(max(20, a.width-4)).Render(body))
		b.WriteString("\n\n")
	}

	for i, item := range a.snap.Items {
		line := fmt.Sprintf("%d. %s", i+1, item.Headline)
		if i == a.snap.Index {
			b.WriteString(itemActiveStyle.Render("› " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderStatusBar(a.snap.State, a.width))
	return b.String()
}

func stateLabel(s player.Snapshot) string {
	switch s.State {
	case player.Loading:
		return "Nachrichten werden geladen ..."
	case player.Playing:
		return fmt.Sprintf("Wiedergabe: %s %d von %d", typeLabel(s), s.Index+1, len(s.Items))
	case player.Paused:
		return fmt.Sprintf("Pausiert bei %d von %d", s.Index+1, len(s.Items))
	default:
		return "Bereit"
	}
}

func typeLabel(s player.Snapshot) string {
	item, ok := s.Current()
	if !ok {
		return ""
	}
	switch item.Type {
	case news.TypeLocal:
		return "Region"
	case news.TypeWeather:
		return "Wetter"
	default:
		return "Welt"
	}
}

func renderStatusBar(state player.State, width int) string {
	hints := " enter abspielen  q beenden "
	if state == player.Playing || state == player.Paused {
		hints = " leertaste pause  ← zurück  → weiter  s stopp  q beenden "
	}

	gap := width - lipgloss.Width(hints)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(width).Render(fmt.Sprintf("%*s", gap, "") + hints)
}
