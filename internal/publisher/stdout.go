package publisher

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// StdoutPublisher prints the briefing as plain text.
type StdoutPublisher struct {
	w io.Writer
}

// NewStdoutPublisher prints to w, normally the command's stdout.
func NewStdoutPublisher(w io.Writer) *StdoutPublisher {
	return &StdoutPublisher{w: w}
}

func (p *StdoutPublisher) Publish(_ context.Context, b *Briefing) error {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 72) + "\n")
	fmt.Fprintf(&sb, "Nachrichten für %s (%s)\n", b.City.Name, b.City.StateName)
	fmt.Fprintf(&sb, "Stand: %s, %s Uhr\n", germanDate(b.Date), b.Date.Format("15:04"))
	if !b.IsLive {
		sb.WriteString("Hinweis: Beispielnachrichten, die aktuellen Meldungen sind gerade nicht erreichbar.\n")
	}
	sb.WriteString(strings.Repeat("=", 72) + "\n\n")

	for i, item := range b.News {
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		fmt.Fprintf(&sb, "%d. [%s] %s\n\n", i+1, typeLabel(item.Type), item.Headline)
		fmt.Fprintf(&sb, "   %s\n\n", item.Summary)
	}

	sb.WriteString(strings.Repeat("=", 72) + "\n")

	if _, err := io.WriteString(p.w, sb.String()); err != nil {
		return fmt.Errorf("stdout: failed to write briefing: %w", err)
	}
	return nil
}
