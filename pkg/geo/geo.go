package geo

import "math"

const earthRadiusKm = 6371

// DefaultSpeedKmh is the courier speed assumed when the caller has no
// better estimate.
const DefaultSpeedKmh = 25

// fallbackEtaMinutes is returned when the distance is unknown.
const fallbackEtaMinutes = 10

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm returns the great-circle (haversine) distance between two
// points given in degrees.
func DistanceKm(from, to LatLng) float64 {
	lat1 := toRad(from.Latitude)
	lat2 := toRad(to.Latitude)
	dLat := toRad(to.Latitude - from.Latitude)
	dLng := toRad(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// EstimateEtaMinutes converts a distance into a delivery ETA at the given
// average speed. A zero or negative distance means "unknown" and yields a
// fixed 10 minute fallback; a non-positive speed falls back to
// DefaultSpeedKmh.
func EstimateEtaMinutes(distanceKm, avgSpeedKmh float64) int {
	if distanceKm <= 0 {
		return fallbackEtaMinutes
	}
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = DefaultSpeedKmh
	}
	return int(math.Ceil(distanceKm / avgSpeedKmh * 60))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
