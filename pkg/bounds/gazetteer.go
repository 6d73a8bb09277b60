package bounds

import (
	"sort"
	"strings"
)

// Gazetteer resolves a city/country pair to a coordinate.
type Gazetteer interface {
	Lookup(city, country string) (Point, bool)
}

// Entry is a single gazetteer row.
type Entry struct {
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
	Point   Point  `json:"point" yaml:"point"`
}

// Key normalizes a city/country pair for lookups. Matching ignores case and
// surrounding whitespace.
func Key(city, country string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(country))
}

// Table is an in-memory gazetteer keyed by Key.
type Table map[string]Entry

// NewTable indexes entries, later duplicates replacing earlier ones.
func NewTable(entries ...Entry) Table {
	t := make(Table, len(entries))
	for _, e := range entries {
		t.Add(e)
	}
	return t
}

// Add inserts or replaces an entry. Entries without a city are ignored.
func (t Table) Add(e Entry) {
	if strings.TrimSpace(e.City) == "" {
		return
	}
	e.City = strings.TrimSpace(e.City)
	e.Country = strings.TrimSpace(e.Country)
	t[Key(e.City, e.Country)] = e
}

// Lookup implements Gazetteer.
func (t Table) Lookup(city, country string) (Point, bool) {
	if strings.TrimSpace(city) == "" {
		return Point{}, false
	}
	e, ok := t[Key(city, country)]
	if !ok {
		return Point{}, false
	}
	return e.Point, true
}

// Entries returns the rows sorted by country then city.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t))
	for _, e := range t {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !strings.EqualFold(out[i].Country, out[j].Country) {
			return strings.ToLower(out[i].Country) < strings.ToLower(out[j].Country)
		}
		return strings.ToLower(out[i].City) < strings.ToLower(out[j].City)
	})
	return out
}

// Layered consults each gazetteer in order and returns the first hit.
type Layered []Gazetteer

// Lookup implements Gazetteer.
func (l Layered) Lookup(city, country string) (Point, bool) {
	for _, g := range l {
		if g == nil {
			continue
		}
		if p, ok := g.Lookup(city, country); ok {
			return p, true
		}
	}
	return Point{}, false
}

var static = NewTable(
	Entry{City: "Paris", Country: "France", Point: Point{Longitude: 2.3522, Latitude: 48.8566}},
	Entry{City: "Lyon", Country: "France", Point: Point{Longitude: 4.8357, Latitude: 45.7640}},
	Entry{City: "London", Country: "United Kingdom", Point: Point{Longitude: -0.1276, Latitude: 51.5072}},
	Entry{City: "Edinburgh", Country: "United Kingdom", Point: Point{Longitude: -3.1883, Latitude: 55.9533}},
	Entry{City: "Rome", Country: "Italy", Point: Point{Longitude: 12.4964, Latitude: 41.9028}},
	Entry{City: "Florence", Country: "Italy", Point: Point{Longitude: 11.2558, Latitude: 43.7696}},
	Entry{City: "Venice", Country: "Italy", Point: Point{Longitude: 12.3155, Latitude: 45.4408}},
	Entry{City: "Barcelona", Country: "Spain", Point: Point{Longitude: 2.1734, Latitude: 41.3851}},
	Entry{City: "Madrid", Country: "Spain", Point: Point{Longitude: -3.7038, Latitude: 40.4168}},
	Entry{City: "Lisbon", Country: "Portugal", Point: Point{Longitude: -9.1393, Latitude: 38.7223}},
	Entry{City: "Amsterdam", Country: "Netherlands", Point: Point{Longitude: 4.9041, Latitude: 52.3676}},
	Entry{City: "Berlin", Country: "Germany", Point: Point{Longitude: 13.4050, Latitude: 52.5200}},
	Entry{City: "Munich", Country: "Germany", Point: Point{Longitude: 11.5820, Latitude: 48.1351}},
	Entry{City: "Vienna", Country: "Austria", Point: Point{Longitude: 16.3738, Latitude: 48.2082}},
	Entry{City: "Prague", Country: "Czech Republic", Point: Point{Longitude: 14.4378, Latitude: 50.0755}},
	Entry{City: "Athens", Country: "Greece", Point: Point{Longitude: 23.7275, Latitude: 37.9838}},
	Entry{City: "Istanbul", Country: "Turkey", Point: Point{Longitude: 28.9784, Latitude: 41.0082}},
	Entry{City: "Tokyo", Country: "Japan", Point: Point{Longitude: 139.6503, Latitude: 35.6762}},
	Entry{City: "Kyoto", Country: "Japan", Point: Point{Longitude: 135.7681, Latitude: 35.0116}},
	Entry{City: "Seoul", Country: "South Korea", Point: Point{Longitude: 126.9780, Latitude: 37.5665}},
	Entry{City: "Bangkok", Country: "Thailand", Point: Point{Longitude: 100.5018, Latitude: 13.7563}},
	Entry{City: "Singapore", Country: "Singapore", Point: Point{Longitude: 103.8198, Latitude: 1.3521}},
	Entry{City: "Sydney", Country: "Australia", Point: Point{Longitude: 151.2093, Latitude: -33.8688}},
	Entry{City: "New York", Country: "United States", Point: Point{Longitude: -74.0060, Latitude: 40.7128}},
	Entry{City: "San Francisco", Country: "United States", Point: Point{Longitude: -122.4194, Latitude: 37.7749}},
	Entry{City: "Los Angeles", Country: "United States", Point: Point{Longitude: -118.2437, Latitude: 34.0522}},
	Entry{City: "Chicago", Country: "United States", Point: Point{Longitude: -87.6298, Latitude: 41.8781}},
	Entry{City: "Miami Beach", Country: "United States", Point: Point{Longitude: -80.1300, Latitude: 25.7907}},
	Entry{City: "Ann Arbor", Country: "United States", Point: Point{Longitude: -83.7430, Latitude: 42.2808}},
	Entry{City: "Toronto", Country: "Canada", Point: Point{Longitude: -79.3832, Latitude: 43.6532}},
	Entry{City: "Vancouver", Country: "Canada", Point: Point{Longitude: -123.1207, Latitude: 49.2827}},
	Entry{City: "Mexico City", Country: "Mexico", Point: Point{Longitude: -99.1332, Latitude: 19.4326}},
	Entry{City: "Buenos Aires", Country: "Argentina", Point: Point{Longitude: -58.3816, Latitude: -34.6037}},
	Entry{City: "Rio de Janeiro", Country: "Brazil", Point: Point{Longitude: -43.1729, Latitude: -22.9068}},
	Entry{City: "Cape Town", Country: "South Africa", Point: Point{Longitude: 18.4241, Latitude: -33.9249}},
	Entry{City: "Marrakech", Country: "Morocco", Point: Point{Longitude: -7.9811, Latitude: 31.6295}},
	Entry{City: "Cairo", Country: "Egypt", Point: Point{Longitude: 31.2357, Latitude: 30.0444}},
	Entry{City: "Dubai", Country: "United Arab Emirates", Point: Point{Longitude: 55.2708, Latitude: 25.2048}},
	Entry{City: "Reykjavik", Country: "Iceland", Point: Point{Longitude: -21.9426, Latitude: 64.1466}},
)

// Static returns the built-in gazetteer. The returned table is shared and
// must not be modified.
func Static() Table {
	return static
}
