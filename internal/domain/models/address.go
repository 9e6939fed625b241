package models

import (
	"regexp"
	"strconv"
)

// Checkout addresses are free text but may embed raw coordinates as a
// fallback encoding, e.g. "حي الشهداء (36.861900, 42.978800)".
var embeddedCoords = regexp.MustCompile(`\((-?\d{1,3}\.\d+)\s*,\s*(-?\d{1,3}\.\d+)\)`)

// ParseEmbeddedCoordinates extracts "(lat, lng)" from an address string.
func ParseEmbeddedCoordinates(address string) (Location, bool) {
	m := embeddedCoords.FindStringSubmatch(address)
	if m == nil {
		return Location{}, false
	}

	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return Location{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Location{}, false
	}

	return Location{Latitude: lat, Longitude: lng}, true
}
