// Package events announces logged activities to downstream consumers.
package events

import (
	"context"
	"time"

	"health-tracker/internal/domain"
)

// Sources of a logged activity.
const (
	SourceManual = "manual"
	SourceMap    = "map"
)

// ActivityLogged is emitted after an activity has been stored.
type ActivityLogged struct {
	ActivityID  int64     `json:"activity_id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	DistanceKm  float64   `json:"distance_km"`
	Steps       int       `json:"steps"`
	Calories    int       `json:"calories"`
	DurationMin float64   `json:"duration_min"`
	StartedAt   time.Time `json:"started_at"`
	Source      string    `json:"source"`
}

// NewActivityLogged builds the event for a stored activity.
func NewActivityLogged(a domain.Activity, source string) ActivityLogged {
	return ActivityLogged{
		ActivityID:  a.ID,
		UserID:      a.UserID,
		Description: a.Description,
		DistanceKm:  a.DistanceKm,
		Steps:       a.Steps,
		Calories:    a.Calories,
		DurationMin: a.Duration,
		StartedAt:   a.Started.UTC(),
		Source:      source,
	}
}

// Publisher delivers activity events.
type Publisher interface {
	PublishActivityLogged(ctx context.Context, evt ActivityLogged) error
	Close() error
}

// NoopPublisher discards every event. Used when no broker is configured.
type NoopPublisher struct{}

// PublishActivityLogged implements Publisher.
func (NoopPublisher) PublishActivityLogged(context.Context, ActivityLogged) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() error { return nil }
