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

// GetAllMilestones returns every milestone in insertion order.
func (db *DB) GetAllMilestones(ctx context.Context) ([]domain.Milestone, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpGetAllMilestones))
	defer timer.ObserveDuration()

	rows, err := db.query(ctx, `SELECT id, name, description, target_steps FROM milestones ORDER BY id`)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetAllMilestones).Inc()
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	milestones := []domain.Milestone{}
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.TargetSteps); err != nil {
			metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetAllMilestones).Inc()
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetAllMilestones).Inc()
		return nil, fmt.Errorf("failed to iterate milestones: %w", err)
	}
	return milestones, nil
}

// FindMilestoneByID retrieves a milestone by ID.
func (db *DB) FindMilestoneByID(ctx context.Context, id int64) (*domain.Milestone, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindMilestoneByID))
	defer timer.ObserveDuration()

	var m domain.Milestone
	err := db.queryRow(ctx, `SELECT id, name, description, target_steps FROM milestones WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Description, &m.TargetSteps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFindMilestoneByID).Inc()
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}
	return &m, nil
}

// FindMilestoneByName retrieves the first milestone with an exactly matching name.
func (db *DB) FindMilestoneByName(ctx context.Context, name string) (*domain.Milestone, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindMilestoneByName))
	defer timer.ObserveDuration()

	var m domain.Milestone
	err := db.queryRow(ctx, `SELECT id, name, description, target_steps FROM milestones WHERE name = ? ORDER BY id LIMIT 1`, name).
		Scan(&m.ID, &m.Name, &m.Description, &m.TargetSteps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFindMilestoneByName).Inc()
		return nil, fmt.Errorf("failed to get milestone by name: %w", err)
	}
	return &m, nil
}

// SaveMilestone inserts a new milestone and returns its generated ID.
func (db *DB) SaveMilestone(ctx context.Context, m domain.Milestone) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpSaveMilestone))
	defer timer.ObserveDuration()

	id, err := db.insert(ctx, `INSERT INTO milestones (name, description, target_steps) VALUES (?, ?, ?)`,
		m.Name, m.Description, m.TargetSteps)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpSaveMilestone).Inc()
		return 0, fmt.Errorf("failed to create milestone: %w", err)
	}
	return id, nil
}

// UpdateMilestone overwrites an existing milestone.
func (db *DB) UpdateMilestone(ctx context.Context, id int64, m domain.Milestone) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateMilestone))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `UPDATE milestones SET name = ?, description = ?, target_steps = ? WHERE id = ?`,
		m.Name, m.Description, m.TargetSteps, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateMilestone).Inc()
		return 0, fmt.Errorf("failed to update milestone: %w", err)
	}
	return rows, nil
}

// DeleteMilestone removes a milestone.
func (db *DB) DeleteMilestone(ctx context.Context, id int64) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpDeleteMilestone))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `DELETE FROM milestones WHERE id = ?`, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteMilestone).Inc()
		return 0, fmt.Errorf("failed to delete milestone: %w", err)
	}
	return rows, nil
}
