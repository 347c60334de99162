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

// GetAllUsers returns every user in insertion order.
func (db *DB) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpGetAllUsers))
	defer timer.ObserveDuration()

	rows, err := db.query(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetAllUsers).Inc()
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetAllUsers).Inc()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetAllUsers).Inc()
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// FindUserByID retrieves a user by ID.
func (db *DB) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindUserByID))
	defer timer.ObserveDuration()

	var u domain.User
	err := db.queryRow(ctx, `SELECT id, name, email FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFindUserByID).Inc()
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// FindUserByEmail retrieves the first user registered with the given email.
func (db *DB) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFindUserByEmail))
	defer timer.ObserveDuration()

	var u domain.User
	err := db.queryRow(ctx, `SELECT id, name, email FROM users WHERE email = ? ORDER BY id LIMIT 1`, email).
		Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFindUserByEmail).Inc()
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// SaveUser inserts a new user and returns its generated ID.
func (db *DB) SaveUser(ctx context.Context, user domain.User) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpSaveUser))
	defer timer.ObserveDuration()

	id, err := db.insert(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, user.Name, user.Email)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpSaveUser).Inc()
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// UpdateUser overwrites the name and email of an existing user.
func (db *DB) UpdateUser(ctx context.Context, id int64, user domain.User) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateUser))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `UPDATE users SET name = ?, email = ? WHERE id = ?`, user.Name, user.Email, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateUser).Inc()
		return 0, fmt.Errorf("failed to update user: %w", err)
	}
	return rows, nil
}

// DeleteUser removes a user. Their activities go with them via ON DELETE CASCADE.
func (db *DB) DeleteUser(ctx context.Context, id int64) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpDeleteUser))
	defer timer.ObserveDuration()

	rows, err := db.affected(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteUser).Inc()
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows, nil
}

// CountUsers returns the number of registered users.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpCountUsers))
	defer timer.ObserveDuration()

	var count int64
	if err := db.queryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpCountUsers).Inc()
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
