package utils

import "math"

// DefaultProRadiusKM is the service radius applied when a professional has
// not configured one.
const DefaultProRadiusKM = 25.0

// HaversineDistance calculates the great-circle distance between two points
// on Earth. Returns distance in kilometers.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// IsLocationValid checks if the provided coordinates are valid
func IsLocationValid(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ProRadiusOrDefault returns the professional's configured service radius,
// falling back to DefaultProRadiusKM when unset.
func ProRadiusOrDefault(radiusKM float64) float64 {
	if radiusKM <= 0 {
		return DefaultProRadiusKM
	}
	return radiusKM
}
