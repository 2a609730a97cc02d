// Package zipdir holds the static delivery-area table: every postal code we
// deliver to, mapped to its canonical city name. The table is reference data
// maintained alongside deployment; there is no mutation API.
package zipdir

import "strings"

var cityByZip = map[string]string{
	"57072": "Siegen",
	"57074": "Siegen",
	"57076": "Siegen",
	"57078": "Siegen",
	"57080": "Siegen",
	"57223": "Kreuztal",
	"57234": "Wilnsdorf",
	"57250": "Netphen",
	"57258": "Freudenberg",
	"57271": "Hilchenbach",
	"57290": "Neunkirchen",
	"57299": "Burbach",
	"57319": "Bad Berleburg",
	"57334": "Bad Laasphe",
	"57339": "Erndtebrück",
	"57399": "Kirchhundem",
	"57555": "Mudersbach",
	"57610": "Altenkirchen",
	"35683": "Dillenburg",
	"35684": "Dillenburg",
	"35685": "Dillenburg",
	"35708": "Haiger",
	"35745": "Herborn",
}

// Serviceable reports whether zip is inside the delivery area.
func Serviceable(zip string) bool {
	_, ok := cityByZip[strings.TrimSpace(zip)]
	return ok
}

// CanonicalCity returns the city name on file for zip.
func CanonicalCity(zip string) (string, bool) {
	city, ok := cityByZip[strings.TrimSpace(zip)]
	return city, ok
}

// CityMatches compares city against the canonical city for zip, ignoring
// case and surrounding whitespace.
func CityMatches(zip, city string) bool {
	canonical, ok := cityByZip[strings.TrimSpace(zip)]
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(city), canonical)
}
