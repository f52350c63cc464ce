package demo

import (
	"testing"

	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsShapeForEveryCity(t *testing.T) {
	for _, c := range cities.All() {
		t.Run(c.ID, func(t *testing.T) {
			items := News(c.ID)
			require.Len(t, items, 5)
			assert.NotEqual(t, news.TypeLocal, items[0].Type)
			assert.Equal(t, news.TypeLocal, items[3].Type)

			last := items[len(items)-1]
			assert.Equal(t, news.TypeWeather, last.Type)
			assert.Contains(t, last.Headline, c.Name)
		})
	}
}

func TestUnknownCityUsesBerlinContent(t *testing.T) {
	assert.Equal(t, Local("berlin"), Local("nonexistent"))
	assert.Contains(t, Weather("nonexistent").Summary, "bewölkt mit gelegentlichen Aufhellungen")
}

func TestFallbacksCarryNoOriginals(t *testing.T) {
	for _, r := range WorldFallback() {
		assert.False(t, r.Simplifiable())
	}
	assert.False(t, LocalFallback("kiel").Simplifiable())
	assert.Equal(t, news.TypeWeather, WeatherFallback("kiel").Type)
}

func TestWorldReturnsCopy(t *testing.T) {
	w := World()
	w[0].Headline = "changed"
	assert.NotEqual(t, "changed", World()[0].Headline)
}
