package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nzoschke/organizer/internal/db"
	"github.com/nzoschke/organizer/internal/markdown"
	"github.com/nzoschke/organizer/internal/repository"
)

const testUser = "user-1"

// fixedNow is 08:00 UTC on 2024-03-10.
var fixedNow = time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)

type testServices struct {
	db        *sqlx.DB
	habits    *HabitService
	reminders *ReminderService
	notes     *NoteService
	dashboard *DashboardService
}

func setupServices(t *testing.T, opts ...Option) *testServices {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"

	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)

	habits := NewHabitService(repository.NewHabitRepository(database), repository.NewHabitLogRepository(database), opts...)
	reminders := NewReminderService(repository.NewReminderRepository(database), opts...)
	notes := NewNoteService(repository.NewNoteRepository(database), markdown.NewParser(), opts...)

	return &testServices{
		db:        database,
		habits:    habits,
		reminders: reminders,
		notes:     notes,
		dashboard: NewDashboardService(habits, reminders, notes, opts...),
	}
}

func ptr[T any](v T) *T {
	return &v
}
