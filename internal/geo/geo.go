// Package geo holds the great-circle math used to rank nurseries by
// distance from the caller.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Point builds an orb.Point from latitude and longitude. orb stores points
// as [lng, lat].
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b orb.Point) float64 {
	lat1, lat2 := toRad(a.Lat()), toRad(b.Lat())
	dLat := lat2 - lat1
	dLon := toRad(b.Lon() - a.Lon())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// ValidateCoords reports an error when lat or lng is outside the WGS84 range
// or not a finite number.
func ValidateCoords(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates must be finite: %f,%f", lat, lng)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude: %f (must be between -90 and 90)", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("invalid longitude: %f (must be between -180 and 180)", lng)
	}
	return nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
