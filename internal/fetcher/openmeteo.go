package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/ryosukesatoh/calm-news/internal/cache"
	"github.com/ryosukesatoh/calm-news/internal/metrics"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

// DefaultOpenMeteoURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// UnknownWeather describes codes missing from WeatherCodes.
const UnknownWeather = "wechselhaft"

// WeatherCodes maps WMO weather codes to German descriptions.
var WeatherCodes = map[int]string{
	0:  "klarer Himmel",
	1:  "überwiegend klar",
	2:  "teilweise bewölkt",
	3:  "bedeckt",
	45: "Nebel",
	48: "gefrierender Nebel",
	51: "leichter Nieselregen",
	53: "mäßiger Nieselregen",
	55: "starker Nieselregen",
	56: "gefrierender Nieselregen",
	57: "starker gefrierender Nieselregen",
	61: "leichter Regen",
	63: "mäßiger Regen",
	65: "starker Regen",
	66: "gefrierender Regen",
	67: "starker gefrierender Regen",
	71: "leichter Schneefall",
	73: "mäßiger Schneefall",
	75: "starker Schneefall",
	77: "Schneegriesel",
	80: "leichte Regenschauer",
	81: "mäßige Regenschauer",
	82: "starke Regenschauer",
	85: "leichte Schneeschauer",
	86: "starke Schneeschauer",
	95: "Gewitter",
	96: "Gewitter mit leichtem Hagel",
	99: "Gewitter mit starkem Hagel",
}

type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Current   *struct {
		Time        string   `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode *int     `json:"weathercode"`
	} `json:"current"`
}

// OpenMeteoFetcher reads current conditions from Open-Meteo.
type OpenMeteoFetcher struct {
	settings
	baseURL string
	cache   *cache.Cache
}

func NewOpenMeteoFetcher(baseURL string, c *cache.Cache, opts ...Option) *OpenMeteoFetcher {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoFetcher{
		settings: newSettings(opts),
		baseURL:  baseURL,
		cache:    c,
	}
}

func (f *OpenMeteoFetcher) FetchWeather(ctx context.Context, cityName string, latitude, longitude float64) (news.RawItem, error) {
	key := fmt.Sprintf("weather_%.4f_%.4f", latitude, longitude)
	if cached, ok := cache.Get[news.RawItem](f.cache, key, f.ttl); ok {
		metrics.RecordUpstream("openmeteo", "cached")
		return cached, nil
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("current", "temperature_2m,weathercode")
	query.Set("timezone", "Europe/Berlin")

	var resp openMeteoResponse
	if err := f.getJSON(ctx, "openmeteo", f.baseURL+"?"+query.Encode(), &resp); err != nil {
		metrics.RecordUpstream("openmeteo", "error")
		return news.RawItem{}, err
	}
	if resp.Current == nil || resp.Current.Temperature == nil || resp.Current.WeatherCode == nil {
		metrics.RecordUpstream("openmeteo", "error")
		return news.RawItem{}, &Error{Source: "openmeteo", Err: errors.New("missing current conditions")}
	}

	item := WeatherItem(cityName, *resp.Current.Temperature, *resp.Current.WeatherCode)
	metrics.RecordUpstream("openmeteo", "ok")
	cache.Set(f.cache, key, item)
	return item, nil
}

// WeatherItem builds the spoken weather report.
func WeatherItem(cityName string, temperature float64, code int) news.RawItem {
	temp := roundTemperature(temperature)
	return news.RawItem{
		Headline: fmt.Sprintf("Das Wetter in %s", cityName),
		Summary:  fmt.Sprintf("Heute erwarten wir %s. Die Temperaturen liegen bei %d Grad. %s", DescribeWeather(code), temp, ClothingAdvice(temp)),
		Type:     news.TypeWeather,
	}
}

// DescribeWeather returns the German description of a WMO code.
func DescribeWeather(code int) string {
	if desc, ok := WeatherCodes[code]; ok {
		return desc
	}
	return UnknownWeather
}

// ClothingAdvice picks one of three sentences by temperature band.
func ClothingAdvice(temp int) string {
	switch {
	case temp < 5:
		return "Ziehen Sie sich warm an, wenn Sie das Haus verlassen."
	case temp < 15:
		return "Denken Sie an eine Jacke, wenn Sie nach draußen gehen."
	default:
		return "Ein schöner Tag, um nach draußen zu gehen."
	}
}

// roundTemperature rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func roundTemperature(t float64) int {
	return int(math.Floor(t + 0.5))
}
