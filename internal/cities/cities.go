package cities

import "sort"

// City is one of the sixteen German state capitals. RegionID is the
// tagesschau region filter for the state (1-16).
type City struct {
	ID        string
	Name      string
	StateName string
	RegionID  int
	Latitude  float64
	Longitude float64
}

// DefaultID is used when no city is requested and for unknown ids.
const DefaultID = "berlin"

// tagesschau regions: 1=BW, 2=Bavaria, 3=Berlin, 4=Brandenburg, 5=Bremen,
// 6=Hamburg, 7=Hesse, 8=MV, 9=Lower Saxony, 10=NRW, 11=RLP, 12=Saarland,
// 13=Saxony, 14=Saxony-Anhalt, 15=Schleswig-Holstein, 16=Thuringia
var all = map[string]City{
	"stuttgart":    {ID: "stuttgart", Name: "Stuttgart", StateName: "Baden-Württemberg", RegionID: 1, Latitude: 48.7758, Longitude: 9.1829},
	"muenchen":     {ID: "muenchen", Name: "München", StateName: "Bayern", RegionID: 2, Latitude: 48.1351, Longitude: 11.582},
	"berlin":       {ID: "berlin", Name: "Berlin", StateName: "Berlin", RegionID: 3, Latitude: 52.52, Longitude: 13.405},
	"potsdam":      {ID: "potsdam", Name: "Potsdam", StateName: "Brandenburg", RegionID: 4, Latitude: 52.3906, Longitude: 13.0645},
	"bremen":       {ID: "bremen", Name: "Bremen", StateName: "Bremen", RegionID: 5, Latitude: 53.0793, Longitude: 8.8017},
	"hamburg":      {ID: "hamburg", Name: "Hamburg", StateName: "Hamburg", RegionID: 6, Latitude: 53.5511, Longitude: 9.9937},
	"wiesbaden":    {ID: "wiesbaden", Name: "Wiesbaden", StateName: "Hessen", RegionID: 7, Latitude: 50.0782, Longitude: 8.2398},
	"schwerin":     {ID: "schwerin", Name: "Schwerin", StateName: "Mecklenburg-Vorpommern", RegionID: 8, Latitude: 53.6355, Longitude: 11.4012},
	"hannover":     {ID: "hannover", Name: "Hannover", StateName: "Niedersachsen", RegionID: 9, Latitude: 52.3759, Longitude: 9.732},
	"duesseldorf":  {ID: "duesseldorf", Name: "Düsseldorf", StateName: "Nordrhein-Westfalen", RegionID: 10, Latitude: 51.2277, Longitude: 6.7735},
	"mainz":        {ID: "mainz", Name: "Mainz", StateName: "Rheinland-Pfalz", RegionID: 11, Latitude: 49.9929, Longitude: 8.2473},
	"saarbruecken": {ID: "saarbruecken", Name: "Saarbrücken", StateName: "Saarland", RegionID: 12, Latitude: 49.2354, Longitude: 6.9965},
	"dresden":      {ID: "dresden", Name: "Dresden", StateName: "Sachsen", RegionID: 13, Latitude: 51.0504, Longitude: 13.7373},
	"magdeburg":    {ID: "magdeburg", Name: "Magdeburg", StateName: "Sachsen-Anhalt", RegionID: 14, Latitude: 52.1205, Longitude: 11.6276},
	"kiel":         {ID: "kiel", Name: "Kiel", StateName: "Schleswig-Holstein", RegionID: 15, Latitude: 54.3233, Longitude: 10.1228},
	"erfurt":       {ID: "erfurt", Name: "Erfurt", StateName: "Thüringen", RegionID: 16, Latitude: 50.9848, Longitude: 11.0299},
}

// Lookup returns the city with the given id.
func Lookup(id string) (City, bool) {
	c, ok := all[id]
	return c, ok
}

// Default returns the default city.
func Default() City {
	return all[DefaultID]
}

// All returns every city ordered by region id.
func All() []City {
	out := make([]City, 0, len(all))
	for _, c := range all {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegionID < out[j].RegionID })
	return out
}

// Name returns the display name for id, or id itself when unknown.
func Name(id string) string {
	if c, ok := all[id]; ok {
		return c.Name
	}
	return id
}
