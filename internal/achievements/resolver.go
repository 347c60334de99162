// Package achievements decides which achievements a user has earned.
package achievements

import (
	"context"
	"fmt"

	"health-tracker/internal/domain"
)

// Resolver derives earned achievements from a user's logged distance.
type Resolver struct {
	users        domain.UserRepository
	activities   domain.ActivityRepository
	achievements domain.AchievementRepository
}

// NewResolver creates a Resolver over the given repositories.
func NewResolver(users domain.UserRepository, activities domain.ActivityRepository, achievements domain.AchievementRepository) *Resolver {
	return &Resolver{users: users, activities: activities, achievements: achievements}
}

// Progress summarises how far a user has travelled towards the next achievement.
type Progress struct {
	TotalDistanceKm float64              `json:"totalDistanceKm"`
	Earned          []domain.Achievement `json:"earned"`
	Next            *domain.Achievement  `json:"next,omitempty"`
	RemainingKm     float64              `json:"remainingKm"`
}

// EarnedBy returns every achievement whose target distance is at most the
// user's total distance, nearest target first. An unknown user yields
// domain.ErrUserNotFound; a user who has earned nothing yields an empty slice.
func (r *Resolver) EarnedBy(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	total, err := r.totalFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned, err := r.achievements.FindAchievementsByTargetDistance(ctx, total)
	if err != nil {
		return nil, fmt.Errorf("find achievements: %w", err)
	}
	if earned == nil {
		earned = []domain.Achievement{}
	}
	return earned, nil
}

// Progress reports the total distance, the earned achievements and the
// nearest achievement not yet reached.
func (r *Resolver) Progress(ctx context.Context, userID int64) (Progress, error) {
	total, err := r.totalFor(ctx, userID)
	if err != nil {
		return Progress{}, err
	}

	all, err := r.achievements.GetAllAchievements(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("list achievements: %w", err)
	}

	p := Progress{TotalDistanceKm: total, Earned: []domain.Achievement{}}
	for i := range all {
		if all[i].TargetDistanceKm <= total {
			p.Earned = append(p.Earned, all[i])
			continue
		}
		// all is ordered by target, so the first miss is the next goal
		next := all[i]
		p.Next = &next
		p.RemainingKm = next.TargetDistanceKm - total
		break
	}
	return p, nil
}

func (r *Resolver) totalFor(ctx context.Context, userID int64) (float64, error) {
	user, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
	}

	total, err := r.activities.TotalDistanceKmByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("total distance: %w", err)
	}
	return total, nil
}
