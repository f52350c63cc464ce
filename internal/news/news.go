package news

// Type classifies an item for ordering and narration.
type Type string

const (
	TypeWorld   Type = "welt"
	TypeLocal   Type = "lokal"
	TypeWeather Type = "wetter"
)

// Item is the simplified, display-ready form of a news or weather entry.
type Item struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Type     Type   `json:"type"`
}

// RawItem is an item as produced by a fetcher, before simplification.
// OriginalTitle and OriginalSummary are only set when the item should be
// rewritten by the simplifier.
type RawItem struct {
	Headline        string
	Summary         string
	Type            Type
	OriginalTitle   string
	OriginalSummary string
}

// Simplifiable reports whether the item is eligible for rewriting.
// Weather is never rewritten.
func (r RawItem) Simplifiable() bool {
	return r.Type != TypeWeather && r.OriginalTitle != "" && r.OriginalSummary != ""
}

// Item drops the original fields.
func (r RawItem) Item() Item {
	return Item{Headline: r.Headline, Summary: r.Summary, Type: r.Type}
}

// Response is the payload of GET /api/news.
type Response struct {
	News   []Item `json:"news"`
	IsLive bool   `json:"isLive"`
}
