package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"health-tracker/internal/domain"
	"health-tracker/internal/metrics"
)

const achievementColumns = `id, name, description, target_distance_km, badge_path`

func (db *DB) listAchievements(ctx context.Context, op, query string, args ...any) ([]domain.Achievement, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	achievements := []domain.Achievement{}
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.TargetDistanceKm, &a.BadgePath); err != nil {
			metrics.DBOperationErrorsTotal.WithLabelValues(op).Inc()
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}
	return achievements, nil
}

// GetAllAchievements returns every achievement, nearest target first.
func (db *DB) GetAllAchievements(ctx context.Context) ([]domain.Achievement, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpGetAllAchievements))
	defer timer.ObserveDuration()

	return db.listAchievements(ctx, metrics.DBOpGetAllAchievements,
		`SELECT `+achievementColumns+` FROM achievements ORDER BY target_distance_km ASC, id ASC`)
}

// FindAchievementByID retrieves an achievement by ID.
func (db *DB) FindAchievementByID(ctx context.Context, id int64) (*domain.Achievement, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindAchievementByID))
	defer timer.ObserveDuration()

	var a domain.Achievement
	err := db.queryRow(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Description, &a.TargetDistanceKm, &a.BadgePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFindAchievementByID).Inc()
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	return &a, nil
}

// FindAchievementsByTargetDistance returns the achievements whose target is at
// most maxDistanceKm, nearest target first.
func (db *DB) FindAchievementsByTargetDistance(ctx context.Context, maxDistanceKm float64) ([]domain.Achievement, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindAchievementsByDistance))
	defer timer.ObserveDuration()

	return db.listAchievements(ctx, metrics.DBOpFindAchievementsByDistance,
		`SELECT `+achievementColumns+` FROM achievements
		WHERE target_distance_km <= ?
		ORDER BY target_distance_km ASC, id ASC`, maxDistanceKm)
}

// SaveAchievement inserts a new achievement and returns its generated ID.
func (db *DB) SaveAchievement(ctx context.Context, a domain.Achievement) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpSaveAchievement))
	defer timer.ObserveDuration()

	id, err := db.insert(ctx, `
		INSERT INTO achievements (name, description, target_distance_km, badge_path)
		VALUES (?, ?, ?, ?)`,
		a.Name, a.Description, a.TargetDistanceKm, a.BadgePath)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpSaveAchievement).Inc()
		return 0, fmt.Errorf("failed to create achievement: %w", err)
	}
	return id, nil
}

// UpdateAchievement overwrites an existing achievement.
func (db *DB) UpdateAchievement(ctx context.Context, id int64, a domain.Achievement) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateAchievement))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `
		UPDATE achievements
		SET name = ?, description = ?, target_distance_km = ?, badge_path = ?
		WHERE id = ?`,
		a.Name, a.Description, a.TargetDistanceKm, a.BadgePath, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateAchievement).Inc()
		return 0, fmt.Errorf("failed to update achievement: %w", err)
	}
	return rows, nil
}

// DeleteAchievement removes an achievement.
func (db *DB) DeleteAchievement(ctx context.Context, id int64) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpDeleteAchievement))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `DELETE FROM achievements WHERE id = ?`, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteAchievement).Inc()
		return 0, fmt.Errorf("failed to delete achievement: %w", err)
	}
	return rows, nil
}
