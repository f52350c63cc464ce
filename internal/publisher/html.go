package publisher

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/ryosukesatoh/calm-news/internal/cities"
)

// HTMLPublisher writes the briefing as a standalone HTML page.
type HTMLPublisher struct {
	w io.Writer
}

func NewHTMLPublisher(w io.Writer) *HTMLPublisher {
	return &HTMLPublisher{w: w}
}

func (p *HTMLPublisher) Publish(_ context.Context, b *Briefing) error {
	if _, err := io.WriteString(p.w, RenderHTML(b)); err != nil {
		return fmt.Errorf("html: failed to write briefing: %w", err)
	}
	return nil
}

// RenderHTML builds the briefing page with large type and a city picker.
func RenderHTML(b *Briefing) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html lang="de"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>Ruhige Nachrichten</title><style>
body { font-family: Georgia, 'Times New Roman', serif; font-size: 1.4em; line-height: 1.6; max-width: 760px; margin: 0 auto; padding: 24px; color: #2b2b2b; background: #fbf8f1; }
h1 { color: #3b3a30; border-bottom: 3px solid #c9b37e; padding-bottom: 10px; }
.date { color: #666; }
.notice { background: #f3ead3; padding: 12px 16px; border-radius: 8px; }
.item { border: 1px solid #e2d8bf; border-radius: 8px; padding: 16px 20px; margin-bottom: 18px; background: #fff; }
.item h2 { margin: 0 0 8px 0; font-size: 1.2em; color: #3b3a30; }
.label { text-transform: uppercase; letter-spacing: 0.05em; font-size: 0.7em; color: #8a7a4f; }
form { margin: 20px 0; }
select, button { font-size: 1em; padding: 6px 10px; }
</style></head><body>`)

	fmt.Fprintf(&sb, "<h1>Nachrichten für %s</h1>", html.EscapeString(b.City.Name))
	fmt.Fprintf(&sb, `<p class="date">%s, %s Uhr</p>`, germanDate(b.Date), b.Date.Format("15:04"))

	sb.WriteString(`<form method="get" action="/"><label for="city">Stadt: </label><select id="city" name="city">`)
	for _, c := range cities.All() {
		selected := ""
		if c.ID == b.City.ID {
			selected = " selected"
		}
		fmt.Fprintf(&sb, `<option value="%s"%s>%s</option>`, url.QueryEscape(c.ID), selected, html.EscapeString(c.Name))
	}
	sb.WriteString(`</select> <button type="submit">Anzeigen</button></form>`)

	if !b.IsLive {
		sb.WriteString(`<p class="notice">Die aktuellen Meldungen sind gerade nicht erreichbar. Sie lesen Beispielnachrichten.</p>`)
	}

	for _, item := range b.News {
		fmt.Fprintf(&sb, `<div class="item item-%s">`, item.Type)
		fmt.Fprintf(&sb, `<div class="label">%s</div>`, typeLabel(item.Type))
		fmt.Fprintf(&sb, "<h2>%s</h2>", html.EscapeString(item.Headline))
		fmt.Fprintf(&sb, "<p>%s</p>", html.EscapeString(item.Summary))
		sb.WriteString("</div>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}
