package dispatch

import (
	"math"

	"pawdispatch/models"
)

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two coordinates
// using the Haversine formula. Pure and total: any numeric degrees are
// accepted.
func DistanceKm(a, b models.Coordinate) float64 {
	return haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// DistanceMeters returns the great-circle distance in meters. Geofence
// checks measure directly with this, independent of the visibility and
// acceptance gates.
func DistanceMeters(a, b models.Coordinate) float64 {
	return DistanceKm(a, b) * 1000
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
