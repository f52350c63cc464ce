// Package demo holds the canned content served whenever live data is not
// available: per-source fallbacks for the aggregator and full demo
// briefings for the player.
package demo

import (
	"fmt"

	"github.com/ryosukesatoh/calm-news/internal/cities"
	"github.com/ryosukesatoh/calm-news/internal/news"
)

var worldItems = []news.Item{
	{
		Headline: "Bundesregierung beschließt neue Maßnahmen",
		Summary:  "Die Bundesregierung hat heute in Berlin wichtige Beschlüsse gefasst. Die neuen Regelungen sollen das Leben der Bürgerinnen und Bürger verbessern und treten zum Jahreswechsel in Kraft.",
		Type:     news.TypeWorld,
	},
	{
		Headline: "Wirtschaft zeigt sich zuversichtlich",
		Summary:  "Deutsche Unternehmen blicken optimistisch in die Zukunft. Besonders der Mittelstand rechnet mit guten Geschäften im kommenden Jahr.",
		Type:     news.TypeWorld,
	},
	{
		Headline: "Kulturveranstaltungen ziehen Besucher an",
		Summary:  "Museen und Theater melden steigende Besucherzahlen. Die Menschen genießen wieder das gemeinsame Erleben von Kunst und Kultur.",
		Type:     news.TypeWorld,
	},
}

type localStory struct {
	headline string
	summary  string
}

var localStories = map[string]localStory{
	"stuttgart":    {"Neuer Seniorentreff im Stadtteil eröffnet", "Der gemütliche Treffpunkt bietet Kaffee, Kuchen und Gesellschaft für alle, die Gesellschaft suchen."},
	"muenchen":     {"Münchner Bäckerei verschenkt Brot an Bedürftige", "Eine traditionelle Bäckerei in Schwabing gibt täglich Brot an Menschen weiter, die wenig Geld haben."},
	"berlin":       {"Neuer Spielplatz im Volkspark eröffnet", "Die Stadt hat einen barrierefreien Spielplatz eingeweiht, der Kindern und Großeltern gemeinsames Spielen ermöglicht."},
	"potsdam":      {"Schloss Sanssouci begeistert Besucher", "Das historische Schloss zieht wieder viele Gäste an. Die Parkanlage lädt zu gemütlichen Spaziergängen ein."},
	"bremen":       {"Bremer Stadtmusikanten bekommen neuen Anstrich", "Die berühmte Bronzestatue wurde gereinigt und erstrahlt in neuem Glanz. Ein beliebtes Fotomotiv für Touristen."},
	"hamburg":      {"Ehrenamtliche Helfer räumen Elbstrand auf", "Über zweihundert Freiwillige haben am Wochenende den Strand gereinigt. Die Aktion wird von vielen Bürgern gelobt."},
	"wiesbaden":    {"Kurpark lädt zu Frühlingskonzerten ein", "Im historischen Kurpark finden wieder kostenlose Konzerte statt. Die Veranstaltungen sind für alle Altersgruppen geeignet."},
	"schwerin":     {"Schweriner Schloss öffnet neue Ausstellung", "Das Märchenschloss zeigt historische Gemälde aus drei Jahrhunderten. Der Eintritt ist für Senioren ermäßigt."},
	"hannover":     {"Herrenhäuser Gärten laden zum Verweilen ein", "Die barocken Gärten bieten Ruhe und Erholung. Neue Sitzbänke wurden im Schatten aufgestellt."},
	"duesseldorf":  {"Nachbarschaftshilfe verbindet Jung und Alt", "Ein neues Projekt bringt Schüler und Senioren zusammen. Sie helfen sich gegenseitig im Alltag."},
	"mainz":        {"Gutenberg-Museum zeigt seltene Drucke", "Das Museum präsentiert wertvolle historische Bücher. Führungen werden auch in einfacher Sprache angeboten."},
	"saarbruecken": {"Deutsch-Französischer Garten blüht auf", "Der grenzüberschreitende Park zeigt sich in voller Blütenpracht. Ein Ort der Begegnung für Jung und Alt."},
	"dresden":      {"Elbe-Radweg wird ausgebaut", "Der beliebte Radweg bekommt neue Rastplätze mit Bänken und Trinkwasserbrunnen."},
	"magdeburg":    {"Elbauenpark startet Seniorenprogramm", "Der Park bietet neue Bewegungskurse für ältere Menschen an. Die Teilnahme ist kostenlos."},
	"kiel":         {"Kieler Förde lädt zum Flanieren ein", "Die neue Uferpromenade bietet einen schönen Blick auf die Schiffe. Viele Bänke laden zum Ausruhen ein."},
	"erfurt":       {"Krämerbrücke feiert Jubiläum", "Die älteste bebaute Brücke Deutschlands begeht ihr Stadtfest. Handwerker zeigen traditionelles Kunsthandwerk."},
}

type weatherSample struct {
	temp        string
	description string
}

var weatherSamples = map[string]weatherSample{
	"stuttgart":    {"6", "wechselhaft"},
	"muenchen":     {"4", "sonnig aber kühl"},
	"berlin":       {"7", "bewölkt mit gelegentlichen Aufhellungen"},
	"potsdam":      {"7", "leicht bewölkt"},
	"bremen":       {"8", "windig mit Schauern"},
	"hamburg":      {"9", "leichter Regen"},
	"wiesbaden":    {"9", "mild und freundlich"},
	"schwerin":     {"6", "wechselhaft"},
	"hannover":     {"7", "bedeckt"},
	"duesseldorf":  {"9", "leicht bewölkt"},
	"mainz":        {"10", "sonnig"},
	"saarbruecken": {"8", "teilweise bewölkt"},
	"dresden":      {"4", "sonnig"},
	"magdeburg":    {"5", "trocken und kühl"},
	"kiel":         {"7", "frisch mit Böen"},
	"erfurt":       {"5", "neblig am Morgen"},
}

// World returns the three canned world items.
func World() []news.Item {
	out := make([]news.Item, len(worldItems))
	copy(out, worldItems)
	return out
}

// Local returns the canned local story for a city, or Berlin's for unknown ids.
func Local(cityID string) news.Item {
	s, ok := localStories[cityID]
	if !ok {
		s = localStories[cities.DefaultID]
	}
	return news.Item{Headline: s.headline, Summary: s.summary, Type: news.TypeLocal}
}

// Weather returns the canned weather report for a city.
func Weather(cityID string) news.Item {
	w, ok := weatherSamples[cityID]
	if !ok {
		w = weatherSamples[cities.DefaultID]
	}
	return news.Item{
		Headline: fmt.Sprintf("Das Wetter in %s", cities.Name(cityID)),
		Summary:  fmt.Sprintf("Heute erwarten wir %s. Die Temperaturen liegen bei %s Grad. Denken Sie an warme Kleidung, wenn Sie das Haus verlassen.", w.description, w.temp),
		Type:     news.TypeWeather,
	}
}

// News returns the full demo briefing for a city: world items, the local
// story, then the weather.
func News(cityID string) []news.Item {
	items := World()
	items = append(items, Local(cityID), Weather(cityID))
	return items
}

// WorldFallback replaces a failed world news fetch.
func WorldFallback() []news.RawItem {
	return toRaw(World())
}

// LocalFallback replaces a failed or empty regional fetch.
func LocalFallback(cityID string) news.RawItem {
	return toRaw([]news.Item{Local(cityID)})[0]
}

// WeatherFallback replaces a failed weather fetch.
func WeatherFallback(cityID string) news.RawItem {
	return toRaw([]news.Item{Weather(cityID)})[0]
}

// Unavailable is served when the whole pipeline breaks down.
func Unavailable() []news.Item {
	return []news.Item{
		{
			Headline: "Nachrichten werden vorbereitet",
			Summary:  "Wir bereiten gerade die aktuellen Nachrichten für Sie vor. Bitte versuchen Sie es in wenigen Augenblicken erneut.",
			Type:     news.TypeWorld,
		},
		{
			Headline: "Das Wetter in Ihrer Stadt",
			Summary:  "Heute wird es herbstlich mit Temperaturen um die acht Grad. Ziehen Sie sich warm an.",
			Type:     news.TypeWeather,
		},
	}
}

// toRaw converts canned items to raw items without originals, so the
// simplifier passes them through untouched.
func toRaw(items []news.Item) []news.RawItem {
	out := make([]news.RawItem, len(items))
	for i, it := range items {
		out[i] = news.RawItem{Headline: it.Headline, Summary: it.Summary, Type: it.Type}
	}
	return out
}
