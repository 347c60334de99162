// Package tracker orchestrates the health tracker's workflows over the repositories.
package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"health-tracker/internal/achievements"
	"health-tracker/internal/domain"
	"health-tracker/internal/events"
	"health-tracker/internal/geo"
	"health-tracker/internal/metrics"
)

// Store is the persistence the service needs. *database.DB satisfies it.
type Store interface {
	domain.UserRepository
	domain.ActivityRepository
	domain.MilestoneRepository
	domain.AchievementRepository
}

// Service composes storage, estimation, achievement resolution and event publishing.
type Service struct {
	store     Store
	estimator *geo.Estimator
	resolver  *achievements.Resolver
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService constructs a Service. A nil publisher disables events.
func NewService(store Store, estimator *geo.Estimator, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		estimator: estimator,
		resolver:  achievements.NewResolver(store, store, store),
		publisher: publisher,
		logger:    logger,
	}
}

// Users

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.GetAllUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.FindUserByID(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.FindUserByEmail(ctx, email)
}

// CreateUser stores a user and returns it with its generated ID.
func (s *Service) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	id, err := s.store.SaveUser(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = id
	s.logger.Info("User created", "user_id", id)
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, user domain.User) (int64, error) {
	return s.store.UpdateUser(ctx, id, user)
}

// DeleteUser removes a user together with all of their activities.
func (s *Service) DeleteUser(ctx context.Context, id int64) (int64, error) {
	rows, err := s.store.DeleteUser(ctx, id)
	if err == nil && rows > 0 {
		s.logger.Info("User deleted", "user_id", id)
	}
	return rows, err
}

// Activities

func (s *Service) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	return s.store.GetAllActivities(ctx)
}

func (s *Service) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	return s.store.FindActivityByID(ctx, id)
}

// ActivitiesForUser lists a user's activities. An unknown user is
// domain.ErrUserNotFound; a user with no activities gets an empty slice.
func (s *Service) ActivitiesForUser(ctx context.Context, userID int64) ([]domain.Activity, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.FindActivitiesByUserID(ctx, userID)
}

// CreateActivity stores a manually logged activity for an existing user.
func (s *Service) CreateActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	if err := activity.Validate(); err != nil {
		return domain.Activity{}, err
	}
	if err := s.requireUser(ctx, activity.UserID); err != nil {
		return domain.Activity{}, err
	}
	return s.saveActivity(ctx, activity, events.SourceManual)
}

// CreateActivityFromMap estimates an activity between two points and stores it.
func (s *Service) CreateActivityFromMap(ctx context.Context, userID int64, req domain.MapRequest) (domain.Activity, error) {
	if err := req.Validate(); err != nil {
		return domain.Activity{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return domain.Activity{}, err
	}
	activity := s.estimator.Synthesize(ctx, userID, req)
	return s.saveActivity(ctx, activity, events.SourceMap)
}

func (s *Service) UpdateActivity(ctx context.Context, id int64, activity domain.Activity) (int64, error) {
	if err := activity.Validate(); err != nil {
		return 0, err
	}
	if err := s.requireUser(ctx, activity.UserID); err != nil {
		return 0, err
	}
	return s.store.UpdateActivity(ctx, id, activity)
}

func (s *Service) DeleteActivity(ctx context.Context, id int64) (int64, error) {
	return s.store.DeleteActivity(ctx, id)
}

func (s *Service) DeleteUserActivities(ctx context.Context, userID int64) (int64, error) {
	return s.store.DeleteActivitiesByUserID(ctx, userID)
}

// Milestones

func (s *Service) ListMilestones(ctx context.Context) ([]domain.Milestone, error) {
	return s.store.GetAllMilestones(ctx)
}

func (s *Service) GetMilestone(ctx context.Context, id int64) (*domain.Milestone, error) {
	return s.store.FindMilestoneByID(ctx, id)
}

func (s *Service) GetMilestoneByName(ctx context.Context, name string) (*domain.Milestone, error) {
	return s.store.FindMilestoneByName(ctx, name)
}

func (s *Service) CreateMilestone(ctx context.Context, m domain.Milestone) (domain.Milestone, error) {
	if err := m.Validate(); err != nil {
		return domain.Milestone{}, err
	}
	id, err := s.store.SaveMilestone(ctx, m)
	if err != nil {
		return domain.Milestone{}, err
	}
	m.ID = id
	return m, nil
}

func (s *Service) UpdateMilestone(ctx context.Context, id int64, m domain.Milestone) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return s.store.UpdateMilestone(ctx, id, m)
}

func (s *Service) DeleteMilestone(ctx context.Context, id int64) (int64, error) {
	return s.store.DeleteMilestone(ctx, id)
}

// Achievements

func (s *Service) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return s.store.GetAllAchievements(ctx)
}

func (s *Service) GetAchievement(ctx context.Context, id int64) (*domain.Achievement, error) {
	return s.store.FindAchievementByID(ctx, id)
}

func (s *Service) CreateAchievement(ctx context.Context, a domain.Achievement) (domain.Achievement, error) {
	if err := a.Validate(); err != nil {
		return domain.Achievement{}, err
	}
	id, err := s.store.SaveAchievement(ctx, a)
	if err != nil {
		return domain.Achievement{}, err
	}
	a.ID = id
	return a, nil
}

func (s *Service) UpdateAchievement(ctx context.Context, id int64, a domain.Achievement) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	return s.store.UpdateAchievement(ctx, id, a)
}

func (s *Service) DeleteAchievement(ctx context.Context, id int64) (int64, error) {
	return s.store.DeleteAchievement(ctx, id)
}

// EarnedAchievements returns the achievements a user has unlocked.
func (s *Service) EarnedAchievements(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	return s.resolver.EarnedBy(ctx, userID)
}

// Progress reports a user's distance towards the next achievement.
func (s *Service) Progress(ctx context.Context, userID int64) (achievements.Progress, error) {
	return s.resolver.Progress(ctx, userID)
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
	}
	return nil
}

func (s *Service) saveActivity(ctx context.Context, activity domain.Activity, source string) (domain.Activity, error) {
	id, err := s.store.SaveActivity(ctx, activity)
	if err != nil {
		return domain.Activity{}, err
	}
	activity.ID = id
	metrics.ActivitiesCreatedTotal.WithLabelValues(source).Inc()

	s.logger.Info("Activity logged",
		"activity_id", id,
		"user_id", activity.UserID,
		"source", source,
		"distance_km", activity.DistanceKm,
		"steps", activity.Steps,
	)

	// Publishing is best effort; the activity is already stored
	if err := s.publisher.PublishActivityLogged(ctx, events.NewActivityLogged(activity, source)); err != nil {
		s.logger.Warn("Failed to publish activity event", "activity_id", id, "error", err)
	}
	return activity, nil
}
