package domain

import "context"

// Lookups return (nil, nil) when the record is absent. Update and delete
// methods return the number of rows affected; zero means no such id.

// UserRepository persists users.
type UserRepository interface {
	GetAllUsers(ctx context.Context) ([]User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	SaveUser(ctx context.Context, user User) (int64, error)
	UpdateUser(ctx context.Context, id int64, user User) (int64, error)
	// DeleteUser also removes every activity owned by the user.
	DeleteUser(ctx context.Context, id int64) (int64, error)
}

// ActivityRepository persists activities.
type ActivityRepository interface {
	GetAllActivities(ctx context.Context) ([]Activity, error)
	FindActivityByID(ctx context.Context, id int64) (*Activity, error)
	FindActivitiesByUserID(ctx context.Context, userID int64) ([]Activity, error)
	SaveActivity(ctx context.Context, activity Activity) (int64, error)
	UpdateActivity(ctx context.Context, id int64, activity Activity) (int64, error)
	DeleteActivity(ctx context.Context, id int64) (int64, error)
	DeleteActivitiesByUserID(ctx context.Context, userID int64) (int64, error)
	TotalDistanceKmByUserID(ctx context.Context, userID int64) (float64, error)
}

// MilestoneRepository persists milestones.
type MilestoneRepository interface {
	GetAllMilestones(ctx context.Context) ([]Milestone, error)
	FindMilestoneByID(ctx context.Context, id int64) (*Milestone, error)
	FindMilestoneByName(ctx context.Context, name string) (*Milestone, error)
	SaveMilestone(ctx context.Context, milestone Milestone) (int64, error)
	UpdateMilestone(ctx context.Context, id int64, milestone Milestone) (int64, error)
	DeleteMilestone(ctx context.Context, id int64) (int64, error)
}

// AchievementRepository persists achievements. Listings are ordered by
// TargetDistanceKm ascending.
type AchievementRepository interface {
	GetAllAchievements(ctx context.Context) ([]Achievement, error)
	FindAchievementByID(ctx context.Context, id int64) (*Achievement, error)
	// FindAchievementsByTargetDistance returns achievements whose target is <= maxDistanceKm.
	FindAchievementsByTargetDistance(ctx context.Context, maxDistanceKm float64) ([]Achievement, error)
	SaveAchievement(ctx context.Context, achievement Achievement) (int64, error)
	UpdateAchievement(ctx context.Context, id int64, achievement Achievement) (int64, error)
	DeleteAchievement(ctx context.Context, id int64) (int64, error)
}
