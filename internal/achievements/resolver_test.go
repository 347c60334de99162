package achievements_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-tracker/internal/achievements"
	"health-tracker/internal/database"
	"health-tracker/internal/domain"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, t.TempDir()+"/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Init(context.Background()))
	return db
}

func seed(t *testing.T, db *database.DB) (frodo, sam int64) {
	t.Helper()
	ctx := context.Background()

	var err error
	frodo, err = db.SaveUser(ctx, domain.User{Name: "Frodo", Email: "frodo@shire.me"})
	require.NoError(t, err)
	sam, err = db.SaveUser(ctx, domain.User{Name: "Sam", Email: "sam@shire.me"})
	require.NoError(t, err)

	for _, a := range []domain.Achievement{
		{Name: "Rivendell", Description: "Reached Rivendell", TargetDistanceKm: 10},
		{Name: "Bree", Description: "Reached Bree", TargetDistanceKm: 5},
		{Name: "Mordor", Description: "Reached Mordor", TargetDistanceKm: 100},
	} {
		_, err := db.SaveAchievement(ctx, a)
		require.NoError(t, err)
	}
	return frodo, sam
}

func logDistance(t *testing.T, db *database.DB, userID int64, km float64) {
	t.Helper()
	_, err := db.SaveActivity(context.Background(), domain.Activity{
		Description: "Walk",
		Started:     time.Now(),
		UserID:      userID,
		DistanceKm:  km,
	})
	require.NoError(t, err)
}

func TestEarnedBy(t *testing.T) {
	db := setupTestDB(t)
	frodo, sam := seed(t, db)
	resolver := achievements.NewResolver(db, db, db)
	ctx := context.Background()

	t.Run("no activity earns nothing", func(t *testing.T) {
		earned, err := resolver.EarnedBy(ctx, sam)
		require.NoError(t, err)
		assert.NotNil(t, earned)
		assert.Empty(t, earned)
	})

	t.Run("threshold is inclusive and ordered", func(t *testing.T) {
		logDistance(t, db, frodo, 4)
		logDistance(t, db, frodo, 6)

		earned, err := resolver.EarnedBy(ctx, frodo)
		require.NoError(t, err)
		require.Len(t, earned, 2)
		assert.Equal(t, "Bree", earned[0].Name)
		assert.Equal(t, "Rivendell", earned[1].Name)
	})

	t.Run("unknown user is an error, not an empty result", func(t *testing.T) {
		earned, err := resolver.EarnedBy(ctx, 9999)
		assert.Nil(t, earned)
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})
}

func TestProgress(t *testing.T) {
	db := setupTestDB(t)
	frodo, _ := seed(t, db)
	resolver := achievements.NewResolver(db, db, db)
	ctx := context.Background()

	logDistance(t, db, frodo, 7.5)

	p, err := resolver.Progress(ctx, frodo)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, p.TotalDistanceKm, 1e-9)
	require.Len(t, p.Earned, 1)
	assert.Equal(t, "Bree", p.Earned[0].Name)
	require.NotNil(t, p.Next)
	assert.Equal(t, "Rivendell", p.Next.Name)
	assert.InDelta(t, 2.5, p.RemainingKm, 1e-9)

	logDistance(t, db, frodo, 500)
	p, err = resolver.Progress(ctx, frodo)
	require.NoError(t, err)
	assert.Len(t, p.Earned, 3)
	assert.Nil(t, p.Next)

	_, err = resolver.Progress(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
