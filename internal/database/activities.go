package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"health-tracker/internal/domain"
	"health-tracker/internal/metrics"
)

const activityColumns = `id, description, duration, calories, started, user_id, steps, distance_km`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (domain.Activity, error) {
	var (
		a       domain.Activity
		started int64
	)
	err := row.Scan(&a.ID, &a.Description, &a.Duration, &a.Calories, &started, &a.UserID, &a.Steps, &a.DistanceKm)
	if err != nil {
		return a, err
	}
	a.Started = time.UnixMilli(started).UTC()
	return a, nil
}

func (db *DB) listActivities(ctx context.Context, op, query string, args ...any) ([]domain.Activity, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			metrics.DBOperationErrorsTotal.WithLabelValues(op).Inc()
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}

// GetAllActivities returns every activity in insertion order.
func (db *DB) GetAllActivities(ctx context.Context) ([]domain.Activity, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpGetAllActivities))
	defer timer.ObserveDuration()

	return db.listActivities(ctx, metrics.DBOpGetAllActivities,
		`SELECT `+activityColumns+` FROM activities ORDER BY id`)
}

// FindActivityByID retrieves an activity by ID.
func (db *DB) FindActivityByID(ctx context.Context, id int64) (*domain.Activity, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindActivityByID))
	defer timer.ObserveDuration()

	a, err := scanActivity(db.queryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFindActivityByID).Inc()
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &a, nil
}

// FindActivitiesByUserID returns a user's activities in insertion order.
func (db *DB) FindActivitiesByUserID(ctx context.Context, userID int64) ([]domain.Activity, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindActivitiesByUserID))
	defer timer.ObserveDuration()

	return db.listActivities(ctx, metrics.DBOpFindActivitiesByUserID,
		`SELECT `+activityColumns+` FROM activities WHERE user_id = ? ORDER BY id`, userID)
}

// SaveActivity inserts a new activity and returns its generated ID.
func (db *DB) SaveActivity(ctx context.Context, a domain.Activity) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpSaveActivity))
	defer timer.ObserveDuration()

	id, err := db.insert(ctx, `
		INSERT INTO activities (description, duration, calories, started, user_id, steps, distance_km)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Description, a.Duration, a.Calories, a.Started.UnixMilli(), a.UserID, a.Steps, a.DistanceKm)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpSaveActivity).Inc()
		return 0, fmt.Errorf("failed to create activity: %w", err)
	}
	return id, nil
}

// UpdateActivity overwrites every field of an existing activity, including its owner.
func (db *DB) UpdateActivity(ctx context.Context, id int64, a domain.Activity) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateActivity))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `
		UPDATE activities
		SET description = ?, duration = ?, calories = ?, started = ?, user_id = ?, steps = ?, distance_km = ?
		WHERE id = ?`,
		a.Description, a.Duration, a.Calories, a.Started.UnixMilli(), a.UserID, a.Steps, a.DistanceKm, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateActivity).Inc()
		return 0, fmt.Errorf("failed to update activity: %w", err)
	}
	return rows, nil
}

// DeleteActivity removes a single activity.
func (db *DB) DeleteActivity(ctx context.Context, id int64) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpDeleteActivity))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteActivity).Inc()
		return 0, fmt.Errorf("failed to delete activity: %w", err)
	}
	return rows, nil
}

// DeleteActivitiesByUserID removes every activity owned by a user.
func (db *DB) DeleteActivitiesByUserID(ctx context.Context, userID int64) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpDeleteActivitiesByUserID))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `DELETE FROM activities WHERE user_id = ?`, userID)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteActivitiesByUserID).Inc()
		return 0, fmt.Errorf("failed to delete user activities: %w", err)
	}
	return rows, nil
}

// TotalDistanceKmByUserID sums the distance of a user's activities; zero when there are none.
func (db *DB) TotalDistanceKmByUserID(ctx context.Context, userID int64) (float64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpTotalDistanceByUserID))
	defer timer.ObserveDuration()

	var total float64
	err := db.queryRow(ctx, `SELECT COALESCE(SUM(distance_km), 0) FROM activities WHERE user_id = ?`, userID).
		Scan(&total)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpTotalDistanceByUserID).Inc()
		return 0, fmt.Errorf("failed to sum activity distance: %w", err)
	}
	return total, nil
}

// CountActivities returns the number of stored activities.
func (db *DB) CountActivities(ctx context.Context) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpCountActivities))
	defer timer.ObserveDuration()

	var count int64
	if err := db.queryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpCountActivities).Inc()
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}
