package publisher

import (
	"context"
	"time"

	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

// Briefing is one city's news at a point in time.
type Briefing struct {
	City   cities.City
	Date   time.Time
	News   []news.Item
	IsLive bool
}

func NewBriefing(city cities.City, resp news.Response, date time.Time) *Briefing {
	return &Briefing{
		City:   city,
		Date:   date,
		News:   resp.News,
		IsLive: resp.IsLive,
	}
}

// Publisher publishes a briefing to some output destination.
type Publisher interface {
	Publish(ctx context.Context, b *Briefing) error
}

// typeLabel is the German section label shown for each item type.
func typeLabel(t news.Type) string {
	switch t {
	case news.TypeLocal:
		return "Aus Ihrer Region"
	case news.TypeWeather:
		return "Wetter"
	default:
		return "Welt"
	}
}

// germanDate formats dates like "15. Januar 2025".
func germanDate(t time.Time) string {
	months := [...]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
	return t.Format("2.") + " " + months[t.Month()-1] + " " + t.Format("2006")
}
