package geo

import (
	"context"
	"strconv"
	"time"

	"health-tracker/internal/domain"
	"health-tracker/internal/geocode"
	"health-tracker/internal/metrics"
)

// Estimator builds activities from map points.
type Estimator struct {
	geocoder geocode.Geocoder
	now      func() time.Time
}

// NewEstimator creates an Estimator that names places with geocoder.
func NewEstimator(geocoder geocode.Geocoder) *Estimator {
	return &Estimator{geocoder: geocoder, now: time.Now}
}

// WithClock replaces the source of the Started timestamp.
func (e *Estimator) WithClock(now func() time.Time) *Estimator {
	e.now = now
	return e
}

// Synthesize estimates an activity for userID from the request. It never
// fails: unnamed places get a coordinate label instead.
func (e *Estimator) Synthesize(ctx context.Context, userID int64, req domain.MapRequest) domain.Activity {
	distance := HaversineDistanceKm(req.StartLat, req.StartLng, req.EndLat, req.EndLng)
	// Steps use the unrounded distance
	steps := EstimateSteps(distance)

	start := e.placeName(ctx, req.StartLat, req.StartLng, "Start")
	end := e.placeName(ctx, req.EndLat, req.EndLng, "End")

	metrics.ActivitiesSynthesizedTotal.Inc()
	metrics.SynthesizedDistanceKm.Observe(distance)

	return domain.Activity{
		Description: Truncate("From "+start+" to "+end, domain.ActivityDescriptionMaxLength),
		Duration:    EstimateDurationMinutes(steps),
		Calories:    EstimateCalories(steps),
		Started:     e.now(),
		UserID:      userID,
		Steps:       steps,
		DistanceKm:  RoundDistance(distance),
	}
}

func (e *Estimator) placeName(ctx context.Context, lat, lng float64, label string) string {
	if e.geocoder != nil {
		if name, ok := e.geocoder.Lookup(ctx, lat, lng); ok {
			return name
		}
	}
	return FallbackLabel(label, lat, lng)
}

// FallbackLabel formats a coordinate as "<label> (<lat>, <lng>)".
func FallbackLabel(label string, lat, lng float64) string {
	return label + " (" + formatCoordinate(lat) + ", " + formatCoordinate(lng) + ")"
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Truncate shortens s to at most limit runes.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
