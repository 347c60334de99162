package metrics

import (
	"context"
	"log/slog"
	"time"
)

// DB interface for entity count queries.
type DB interface {
	CountUsers(ctx context.Context) (int64, error)
	CountActivities(ctx context.Context) (int64, error)
}

// StartEntityCountCollector starts a loop that periodically refreshes the
// user and activity gauges from the database. It blocks until ctx is done.
func StartEntityCountCollector(ctx context.Context, db DB, interval time.Duration) {
	logger := slog.Default()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect once immediately
	collectEntityCounts(ctx, db, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Entity count collector stopping")
			return
		case <-ticker.C:
			collectEntityCounts(ctx, db, logger)
		}
	}
}

func collectEntityCounts(ctx context.Context, db DB, logger *slog.Logger) {
	if users, err := db.CountUsers(ctx); err != nil {
		logger.Error("Failed to count users", "error", err)
	} else {
		UsersTotal.Set(float64(users))
	}

	if activities, err := db.CountActivities(ctx); err != nil {
		logger.Error("Failed to count activities", "error", err)
	} else {
		ActivitiesTotal.Set(float64(activities))
	}
}
