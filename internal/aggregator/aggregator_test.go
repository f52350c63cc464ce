package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ryosukesatoh/calm-news/internal/cache"
	"github.com/ryosukesatoh/calm-news/internal/demo"
	"github.com/ryosukesatoh/calm-news/internal/fetcher"
	"github.com/ryosukesatoh/calm-news/internal/news"
	"github.com/ryosukesatoh/calm-news/internal/simplifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorld struct {
	items []news.RawItem
	err   error
	panic bool
}

func (f fakeWorld) FetchWorld(context.Context) ([]news.RawItem, error) {
	if f.panic {
		panic("world exploded")
	}
	return f.items, f.err
}

type fakeRegional struct {
	item *news.RawItem
	err  error
}

func (f fakeRegional) FetchRegional(context.Context, int) (*news.RawItem, error) {
	return f.item, f.err
}

type fakeWeather struct {
	err error
}

func (f fakeWeather) FetchWeather(_ context.Context, cityName string, _, _ float64) (news.RawItem, error) {
	if f.err != nil {
		return news.RawItem{}, f.err
	}
	return fetcher.WeatherItem(cityName, 12, 2), nil
}

// passThrough returns items unchanged in input order.
type passThrough struct{}

func (passThrough) Simplify(_ context.Context, items []news.RawItem) []news.Item {
	out := make([]news.Item, len(items))
	for i, it := range items {
		out[i] = it.Item()
	}
	return out
}

type panicSimplifier struct{}

func (panicSimplifier) Simplify(context.Context, []news.RawItem) []news.Item {
	panic("model client exploded")
}

func worldItems(n int) []news.RawItem {
	items := make([]news.RawItem, n)
	for i := range items {
		title := fmt.Sprintf("Welt %d", i+1)
		items[i] = news.RawItem{Headline: title, Summary: "Text.", Type: news.TypeWorld, OriginalTitle: title, OriginalSummary: "Text."}
	}
	return items
}

func localItem() *news.RawItem {
	return &news.RawItem{Headline: "Neue Brücke", Summary: "Fertig.", Type: news.TypeLocal, OriginalTitle: "Neue Brücke", OriginalSummary: "Fertig."}
}

func headlines(items []news.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Headline
	}
	return out
}

func TestNewsAllSourcesLive(t *testing.T) {
	s := New(fakeWorld{items: worldItems(3)}, fakeRegional{item: localItem()}, fakeWeather{}, passThrough{})

	resp := s.News(context.Background(), "hamburg")

	assert.True(t, resp.IsLive)
	assert.Equal(t, []string{"Welt 1", "Welt 2", "Welt 3", "Neue Brücke", "Das Wetter in Hamburg"}, headlines(resp.News))
}

func TestNewsOrderingWithRemainder(t *testing.T) {
	s := New(fakeWorld{items: worldItems(5)}, fakeRegional{item: localItem()}, fakeWeather{}, passThrough{})

	resp := s.News(context.Background(), "kiel")

	assert.Equal(t, []string{"Welt 1", "Welt 2", "Welt 3", "Neue Brücke", "Welt 4", "Welt 5", "Das Wetter in Kiel"}, headlines(resp.News))
}

func TestNewsPartialFailure(t *testing.T) {
	boom := &fetcher.Error{Source: "tagesschau", Status: http.StatusBadGateway}

	tests := []struct {
		name      string
		world     fakeWorld
		regional  fakeRegional
		weather   fakeWeather
		wantFirst string
		wantLocal string
		wantLast  string
	}{
		{
			name:      "world fails",
			world:     fakeWorld{err: boom},
			regional:  fakeRegional{item: localItem()},
			wantFirst: demo.World()[0].Headline,
			wantLocal: "Neue Brücke",
			wantLast:  "Das Wetter in Dresden",
		},
		{
			name:      "regional fails",
			world:     fakeWorld{items: worldItems(3)},
			regional:  fakeRegional{err: boom},
			wantFirst: "Welt 1",
			wantLocal: demo.Local("dresden").Headline,
			wantLast:  "Das Wetter in Dresden",
		},
		{
			name:      "weather fails",
			world:     fakeWorld{items: worldItems(3)},
			regional:  fakeRegional{item: localItem()},
			weather:   fakeWeather{err: errors.New("openmeteo: request failed")},
			wantFirst: "Welt 1",
			wantLocal: "Neue Brücke",
			wantLast:  demo.Weather("dresden").Headline,
		},
		{
			name:      "world panics",
			world:     fakeWorld{panic: true},
			regional:  fakeRegional{item: localItem()},
			wantFirst: demo.World()[0].Headline,
			wantLocal: "Neue Brücke",
			wantLast:  "Das Wetter in Dresden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.world, tt.regional, tt.weather, passThrough{})

			resp := s.News(context.Background(), "dresden")

			assert.False(t, resp.IsLive)
			require.Len(t, resp.News, 5)
			assert.Equal(t, tt.wantFirst, resp.News[0].Headline)
			assert.Equal(t, tt.wantLocal, resp.News[3].Headline)
			assert.Equal(t, news.TypeLocal, resp.News[3].Type)
			assert.Equal(t, tt.wantLast, resp.News[4].Headline)
			assert.Equal(t, news.TypeWeather, resp.News[4].Type)
		})
	}
}

func TestNewsEmptyRegionalFeedStaysLive(t *testing.T) {
	s := New(fakeWorld{items: worldItems(3)}, fakeRegional{}, fakeWeather{}, passThrough{})

	resp := s.News(context.Background(), "erfurt")

	assert.True(t, resp.IsLive)
	assert.Equal(t, demo.Local("erfurt").Headline, resp.News[3].Headline)
}

func TestNewsLocalNeverFirst(t *testing.T) {
	s := New(fakeWorld{}, fakeRegional{item: localItem()}, fakeWeather{}, passThrough{})

	resp := s.News(context.Background(), "mainz")

	require.NotEmpty(t, resp.News)
	assert.NotEqual(t, news.TypeLocal, resp.News[0].Type)
	assert.Equal(t, news.TypeWeather, resp.News[len(resp.News)-1].Type)
}

func TestNewsUnknownCity(t *testing.T) {
	s := New(fakeWorld{items: worldItems(3)}, fakeRegional{item: localItem()}, fakeWeather{}, passThrough{})

	resp := s.News(context.Background(), "nonexistent")

	assert.False(t, resp.IsLive)
	assert.Equal(t, demo.News("berlin"), resp.News)
}

func TestNewsPipelinePanicServesDemo(t *testing.T) {
	s := New(fakeWorld{items: worldItems(3)}, fakeRegional{item: localItem()}, fakeWeather{}, panicSimplifier{})

	resp := s.News(context.Background(), "bremen")

	assert.False(t, resp.IsLive)
	assert.Equal(t, demo.News("bremen"), resp.News)
}

func TestOrder(t *testing.T) {
	local := *localItem()
	weather := fetcher.WeatherItem("Berlin", 3, 0)

	out := Order(worldItems(2), local, weather)

	require.Len(t, out, 4)
	assert.Equal(t, news.TypeLocal, out[2].Type)
	assert.Equal(t, news.TypeWeather, out[3].Type)
}

func TestBerlinScenario(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api2u/homepage/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"news": [
			{"title": "Erste Meldung", "firstSentence": "Satz eins.", "type": "story"},
			{"title": "Zweite Meldung", "firstSentence": "Satz zwei.", "type": "story"},
			{"title": "Dritte Meldung", "firstSentence": "Satz drei.", "type": "story"}
		]}`))
	})
	mux.HandleFunc("/api2u/news/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("regions") != "3" {
			t.Errorf("Expected Berlin region 3, got %q", r.URL.Query().Get("regions"))
		}
		w.Write([]byte(`{"news": [{"title": "Spree wird sauberer", "firstSentence": "Gute Nachrichten.", "type": "story"}]}`))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"temperature_2m": 6.6, "weathercode": 61}}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := cache.New()
	opts := []fetcher.Option{fetcher.WithHTTPClient(ts.Client())}
	tagesschau := fetcher.NewTagesschauFetcher(ts.URL+"/api2u", 3, c, opts...)
	weather := fetcher.NewOpenMeteoFetcher(ts.URL+"/v1/forecast", c, opts...)
	s := New(tagesschau, tagesschau, weather, simplifier.New(nil, c))

	resp := s.News(context.Background(), "berlin")

	assert.True(t, resp.IsLive)
	require.GreaterOrEqual(t, len(resp.News), 3)
	last := resp.News[len(resp.News)-1]
	assert.Equal(t, news.TypeWeather, last.Type)
	assert.True(t, strings.Contains(last.Headline, "Berlin"))
	assert.Equal(t, "Heute erwarten wir leichter Regen. Die Temperaturen liegen bei 7 Grad. Denken Sie an eine Jacke, wenn Sie nach draußen gehen.", last.Summary)
	assert.Equal(t, "Spree wird sauberer", resp.News[3].Headline)
}
