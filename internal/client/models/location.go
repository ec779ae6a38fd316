package models

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// FormatLocation renders coordinates in the stored "<lat>,<lon>" form.
func FormatLocation(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// ParseLocation splits a stored location. ok is false for UnknownLocation
// and for anything that is not a valid coordinate pair.
func ParseLocation(s string) (lat, lon float64, ok bool) {
	latStr, lonStr, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// NormalizeLocation returns s when it is a valid pair and UnknownLocation
// otherwise.
func NormalizeLocation(s string) string {
	lat, lon, ok := ParseLocation(s)
	if !ok {
		return UnknownLocation
	}
	return FormatLocation(lat, lon)
}

// DistanceKm is the great-circle (haversine) distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
