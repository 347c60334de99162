// Package domain defines the records tracked by the health tracker and the
// persistence contracts the rest of the service is written against.
package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Column widths shared by the schema and boundary validation.
const (
	ActivityDescriptionMaxLength    = 100
	MilestoneNameMaxLength          = 20
	MilestoneDescriptionMaxLength   = 100
	AchievementNameMaxLength        = 100
	AchievementDescriptionMaxLength = 255
	AchievementBadgePathMaxLength   = 255
)

// User is a registered companion.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Activity is one logged journey. Activities belong to exactly one user and
// are removed with that user.
type Activity struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"` // minutes
	Calories    int       `json:"calories"`
	Started     time.Time `json:"started"`
	UserID      int64     `json:"userId"`
	Steps       int       `json:"steps"`
	DistanceKm  float64   `json:"distanceKm"`
}

// Milestone is a narrative checkpoint reached after TargetSteps cumulative steps.
type Milestone struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetSteps int    `json:"targetSteps"`
}

// Achievement is a badge unlocked once a user's total logged distance reaches
// TargetDistanceKm.
type Achievement struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	TargetDistanceKm float64 `json:"targetDistanceKm"`
	BadgePath        string  `json:"badgePath"`
}

// MapRequest carries the two points an activity is synthesised from.
type MapRequest struct {
	StartLat float64 `json:"startLat"`
	StartLng float64 `json:"startLng"`
	EndLat   float64 `json:"endLat"`
	EndLng   float64 `json:"endLng"`
}

// Validate checks the activity against the column limits.
func (a Activity) Validate() error {
	if err := maxLength("description", a.Description, ActivityDescriptionMaxLength); err != nil {
		return err
	}
	if a.Duration < 0 || a.Calories < 0 || a.Steps < 0 || a.DistanceKm < 0 {
		return fmt.Errorf("%w: duration, calories, steps and distanceKm must not be negative", ErrInvalidInput)
	}
	return nil
}

// Validate checks the milestone against the column limits.
func (m Milestone) Validate() error {
	if err := maxLength("name", m.Name, MilestoneNameMaxLength); err != nil {
		return err
	}
	if err := maxLength("description", m.Description, MilestoneDescriptionMaxLength); err != nil {
		return err
	}
	if m.TargetSteps < 0 {
		return fmt.Errorf("%w: targetSteps must not be negative", ErrInvalidInput)
	}
	return nil
}

// Validate checks the achievement invariants.
func (a Achievement) Validate() error {
	if err := maxLength("name", a.Name, AchievementNameMaxLength); err != nil {
		return err
	}
	if err := maxLength("description", a.Description, AchievementDescriptionMaxLength); err != nil {
		return err
	}
	if err := maxLength("badgePath", a.BadgePath, AchievementBadgePathMaxLength); err != nil {
		return err
	}
	if a.TargetDistanceKm < 0 {
		return fmt.Errorf("%w: targetDistanceKm must not be negative", ErrInvalidInput)
	}
	return nil
}

// Validate rejects coordinates outside the WGS84 range.
func (r MapRequest) Validate() error {
	for _, lat := range []float64{r.StartLat, r.EndLat} {
		if lat < -90 || lat > 90 {
			return fmt.Errorf("%w: latitude %v out of range", ErrInvalidInput, lat)
		}
	}
	for _, lng := range []float64{r.StartLng, r.EndLng} {
		if lng < -180 || lng > 180 {
			return fmt.Errorf("%w: longitude %v out of range", ErrInvalidInput, lng)
		}
	}
	return nil
}

func maxLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, field, limit)
	}
	return nil
}
