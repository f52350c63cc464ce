package publisher

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogPublisher records a one-line summary of each briefing. The prefetch
// runner uses it in server mode, where briefings are only produced to warm
// the caches.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, b *Briefing) error {
	p.logger.Info("briefing ready", "city", b.City.ID, "items", len(b.News), "live", b.IsLive)
	return nil
}
