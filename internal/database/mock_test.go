package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-tracker/internal/domain"
)

func TestStorageFaultsAreWrapped(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db := New(conn, DriverSQLite)
	ctx := context.Background()
	fault := errors.New("disk I/O error")

	mock.ExpectQuery(`SELECT id, name, email FROM users`).WillReturnError(fault)
	users, err := db.GetAllUsers(ctx)
	assert.Nil(t, users)
	require.Error(t, err)
	assert.ErrorIs(t, err, fault)
	assert.Contains(t, err.Error(), "failed to list users")

	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).WithArgs(int64(7)).WillReturnError(fault)
	rows, err := db.DeleteUser(ctx, 7)
	assert.Zero(t, rows)
	assert.ErrorIs(t, err, fault)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(distance_km\), 0\) FROM activities`).
		WithArgs(int64(3)).
		WillReturnError(fault)
	total, err := db.TotalDistanceKmByUserID(ctx, 3)
	assert.Zero(t, total)
	assert.ErrorIs(t, err, fault)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDialectPlaceholders(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer conn.Close()

	db := New(conn, DriverPostgres)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`).
		WithArgs("Frodo", "frodo@shire.me").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := db.SaveUser(ctx, domain.User{Name: "Frodo", Email: "frodo@shire.me"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	mock.ExpectExec(`UPDATE milestones SET name = $1, description = $2, target_steps = $3 WHERE id = $4`).
		WithArgs("Bree", "Prancing Pony", int64(5000), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := db.UpdateMilestone(ctx, 1, domain.Milestone{Name: "Bree", Description: "Prancing Pony", TargetSteps: 5000})
	require.NoError(t, err)
	assert.Zero(t, rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
