// Package geo estimates activity figures from a pair of map points.
package geo

import "math"

const (
	EarthRadiusKm     = 6371.0
	StepsPerKm        = 1312.0
	StepsPerMinute    = 100.0
	CaloriesPerStep   = 0.04
	distancePrecision = 100.0
)

// HaversineDistanceKm returns the great-circle distance between two points in
// kilometres.
func HaversineDistanceKm(startLat, startLng, endLat, endLng float64) float64 {
	dLat := toRadians(endLat - startLat)
	dLng := toRadians(endLng - startLng)
	lat1 := toRadians(startLat)
	lat2 := toRadians(endLat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// EstimateSteps converts a distance to a step count.
func EstimateSteps(distanceKm float64) int {
	return int(math.Round(distanceKm * StepsPerKm))
}

// EstimateDurationMinutes converts steps to minutes of walking.
func EstimateDurationMinutes(steps int) float64 {
	return float64(steps) / StepsPerMinute
}

// EstimateCalories converts steps to kilocalories.
func EstimateCalories(steps int) int {
	return int(math.Round(float64(steps) * CaloriesPerStep))
}

// RoundDistance rounds a distance to two decimal places.
func RoundDistance(distanceKm float64) float64 {
	return math.Round(distanceKm*distancePrecision) / distancePrecision
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
