package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nzoschke/organizer/internal/db"
	"github.com/nzoschke/organizer/internal/model"
)

const testUser = "user-1"

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"

	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func createHabit(t *testing.T, repo HabitRepository, name string) *model.Habit {
	t.Helper()
	now := time.Now().UTC()
	habit := &model.Habit{
		ID:        uuid.New().String(),
		UserID:    testUser,
		Name:      name,
		Category:  model.HabitCategoryPersonal,
		Frequency: model.HabitFrequencyDaily,
		Status:    model.HabitStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), habit))
	return habit
}

func newLog(habitID string, day model.Date, completed bool) *model.HabitLog {
	now := time.Now().UTC()
	return &model.HabitLog{
		ID:        uuid.New().String(),
		UserID:    testUser,
		HabitID:   habitID,
		Date:      day,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
