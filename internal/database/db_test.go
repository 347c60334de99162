package database

import (
	"context"
	"testing"
	"time"

	"health-tracker/internal/domain"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(DriverSQLite, t.TempDir()+"/test.db")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Init(context.Background()); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	return db
}

func mustSaveUser(t *testing.T, db *DB, name, email string) int64 {
	t.Helper()
	id, err := db.SaveUser(context.Background(), domain.User{Name: name, Email: email})
	if err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}
	return id
}

func mustSaveActivity(t *testing.T, db *DB, userID int64, distanceKm float64) int64 {
	t.Helper()
	id, err := db.SaveActivity(context.Background(), domain.Activity{
		Description: "Walk",
		Duration:    30,
		Calories:    100,
		Started:     time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		UserID:      userID,
		Steps:       1312,
		DistanceKm:  distanceKm,
	})
	if err != nil {
		t.Fatalf("Failed to save activity: %v", err)
	}
	return id
}

func TestOpen(t *testing.T) {
	t.Run("UnsupportedDriver", func(t *testing.T) {
		if _, err := Open("mysql", "whatever"); err == nil {
			t.Fatal("Expected error for unsupported driver")
		}
	})

	t.Run("InitIsIdempotent", func(t *testing.T) {
		db := setupTestDB(t)
		if err := db.Init(context.Background()); err != nil {
			t.Fatalf("Second Init failed: %v", err)
		}
		if err := db.Health(context.Background()); err != nil {
			t.Fatalf("Health check failed: %v", err)
		}
	})

	t.Run("InMemory", func(t *testing.T) {
		db, err := Open(DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("Failed to open in-memory database: %v", err)
		}
		defer db.Close()
		if err := db.Init(context.Background()); err != nil {
			t.Fatalf("Failed to initialize schema: %v", err)
		}
	})
}

func TestRebind(t *testing.T) {
	query := `UPDATE users SET name = ?, email = ? WHERE id = ?`

	sqlite := &DB{driver: DriverSQLite}
	if got := sqlite.rebind(query); got != query {
		t.Errorf("Expected sqlite query unchanged, got %q", got)
	}

	pg := &DB{driver: DriverPostgres}
	want := `UPDATE users SET name = $1, email = $2 WHERE id = $3`
	if got := pg.rebind(query); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
