package simplifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ryosukesatoh/calm-news/internal/cache"
	"github.com/ryosukesatoh/calm-news/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	reply   func(prompt string) (string, error)
}

func (f *fakeModel) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(prompt)
}

// echoModel rewrites every item in the prompt as "Einfach: <title>".
func echoModel() *fakeModel {
	return &fakeModel{reply: func(prompt string) (string, error) {
		var sb strings.Builder
		n := 0
		for _, line := range strings.Split(prompt, "\n") {
			if title, ok := strings.CutPrefix(line, "Überschrift: "); ok {
				n++
				fmt.Fprintf(&sb, "Nachricht %d:\nÜBERSCHRIFT: Einfach: %s\nZUSAMMENFASSUNG: Ruhig erklärt.\n\n", n, title)
			}
		}
		return sb.String(), nil
	}}
}

func world(title, summary string) news.RawItem {
	return news.RawItem{Headline: title, Summary: summary, Type: news.TypeWorld, OriginalTitle: title, OriginalSummary: summary}
}

func weatherItem() news.RawItem {
	return news.RawItem{Headline: "Das Wetter in Berlin", Summary: "Heute erwarten wir bedeckt. Die Temperaturen liegen bei 7 Grad.", Type: news.TypeWeather}
}

func TestSimplifyWorldAndWeatherSingleCall(t *testing.T) {
	model := echoModel()
	s := New(model, cache.New())

	out := s.Simplify(context.Background(), []news.RawItem{world("Zinsen steigen", "Die Notenbank erhöht den Leitzins."), weatherItem()})

	require.Len(t, out, 2)
	assert.Equal(t, 1, model.calls)
	assert.NotContains(t, model.prompts[0], "Das Wetter in Berlin")
	assert.Equal(t, "Einfach: Zinsen steigen", out[0].Headline)
	assert.Equal(t, "Ruhig erklärt.", out[0].Summary)
	assert.Equal(t, weatherItem().Item(), out[1])
}

func TestSimplifyIsIdempotentWithinTTL(t *testing.T) {
	model := echoModel()
	s := New(model, cache.New())
	items := []news.RawItem{world("Wahl in Hessen", "Die Hessen haben gewählt.")}

	first := s.Simplify(context.Background(), items)
	second := s.Simplify(context.Background(), items)

	assert.Equal(t, 1, model.calls)
	assert.Equal(t, first, second)
}

func TestSimplifyOnlySendsUncachedItems(t *testing.T) {
	model := echoModel()
	s := New(model, cache.New())
	a := world("Erste", "Eins.")
	b := world("Zweite", "Zwei.")

	s.Simplify(context.Background(), []news.RawItem{a})
	out := s.Simplify(context.Background(), []news.RawItem{a, b})

	require.Equal(t, 2, model.calls)
	assert.NotContains(t, model.prompts[1], "Erste")
	assert.Contains(t, model.prompts[1], "Nachricht 1:\nÜberschrift: Zweite")
	assert.Equal(t, "Einfach: Erste", out[0].Headline)
	assert.Equal(t, "Einfach: Zweite", out[1].Headline)
}

func TestSimplifyFallsBackToOriginalOnError(t *testing.T) {
	model := &fakeModel{reply: func(string) (string, error) { return "", errors.New("anthropic: unexpected status 401") }}
	s := New(model, cache.New())
	in := []news.RawItem{
		weatherItem(),
		world("Zinsen steigen", "Die Notenbank erhöht den Leitzins."),
		{Headline: "Spielplatz eröffnet", Summary: "Ein neuer Spielplatz.", Type: news.TypeLocal, OriginalTitle: "Spielplatz eröffnet", OriginalSummary: "Ein neuer Spielplatz."},
	}

	out := s.Simplify(context.Background(), in)

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Item(), out[i])
	}
}

func TestSimplifyKeepsBodyOrderAndWeatherLast(t *testing.T) {
	s := New(echoModel(), cache.New())
	fallback := news.RawItem{Headline: "Demo", Summary: "Demo-Text.", Type: news.TypeWorld}
	local := news.RawItem{Headline: "Lokal", Summary: "Aus der Stadt.", Type: news.TypeLocal, OriginalTitle: "Lokal", OriginalSummary: "Aus der Stadt."}

	out := s.Simplify(context.Background(), []news.RawItem{weatherItem(), fallback, local})

	require.Len(t, out, 3)
	assert.Equal(t, "Demo", out[0].Headline)
	assert.Equal(t, "Einfach: Lokal", out[1].Headline)
	assert.Equal(t, news.TypeLocal, out[1].Type)
	assert.Equal(t, news.TypeWeather, out[2].Type)
}

func TestSimplifyEmptyFieldsFallBackPerItem(t *testing.T) {
	model := &fakeModel{reply: func(string) (string, error) {
		return "ÜBERSCHRIFT: Neu\nZUSAMMENFASSUNG: Neu erklärt.", nil
	}}
	s := New(model, cache.New())

	out := s.Simplify(context.Background(), []news.RawItem{world("A", "Text A."), world("B", "Text B.")})

	require.Len(t, out, 2)
	assert.Equal(t, "Neu", out[0].Headline)
	assert.Equal(t, "B", out[1].Headline)
	assert.Equal(t, "Text B.", out[1].Summary)
}

func TestSimplifyGarbledSectionStaysWithItsItem(t *testing.T) {
	model := &fakeModel{reply: func(string) (string, error) {
		return "Nachricht 1:\nÜBERSCHRIFT: A einfach\nZUSAMMENFASSUNG: A kurz.\n\n---\n\n" +
			"Nachricht 2:\nIch kann das nicht umschreiben.\n\n---\n\n" +
			"Nachricht 3:\nÜBERSCHRIFT: C einfach\nZUSAMMENFASSUNG: C kurz.", nil
	}}
	c := cache.New()
	s := New(model, c)

	out := s.Simplify(context.Background(), []news.RawItem{world("A", "Text A."), world("B", "Text B."), world("C", "Text C.")})

	require.Len(t, out, 3)
	assert.Equal(t, news.Item{Headline: "A einfach", Summary: "A kurz.", Type: news.TypeWorld}, out[0])
	assert.Equal(t, news.Item{Headline: "B", Summary: "Text B.", Type: news.TypeWorld}, out[1])
	assert.Equal(t, news.Item{Headline: "C einfach", Summary: "C kurz.", Type: news.TypeWorld}, out[2])

	cached, ok := cache.Get[news.Item](c, CacheKey("B", "Text B."), DefaultTTL)
	require.True(t, ok)
	assert.Equal(t, "B", cached.Headline)
}

func TestSimplifyWithoutModelTruncates(t *testing.T) {
	long := strings.Repeat("ä", 250)
	s := New(nil, cache.New())

	out := s.Simplify(context.Background(), []news.RawItem{world("Lang", long), weatherItem()})

	require.Len(t, out, 2)
	assert.Equal(t, strings.Repeat("ä", 200)+"...", out[0].Summary)
	assert.Equal(t, weatherItem().Summary, out[1].Summary)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "kurz", Truncate("kurz", 200))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
}

func TestCacheKeyDependsOnBothFields(t *testing.T) {
	assert.Equal(t, CacheKey("a", "b"), CacheKey("a", "b"))
	assert.NotEqual(t, CacheKey("ab", "c"), CacheKey("a", "bc"))
	assert.True(t, strings.HasPrefix(CacheKey("a", "b"), "simplified_"))
}
