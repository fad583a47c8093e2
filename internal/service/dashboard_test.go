package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzoschke/organizer/internal/model"
)

func TestDashboardSummary(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	today := model.DateOf(fixedNow)

	read, err := s.habits.Create(ctx, testUser, HabitInput{Name: "Read"})
	require.NoError(t, err)
	_, err = s.habits.Create(ctx, testUser, HabitInput{Name: "Run"})
	require.NoError(t, err)

	for offset := 2; offset >= 0; offset-- {
		_, err = s.habits.ToggleHabit(ctx, testUser, read.ID, today.AddDays(-offset), ptr(true), nil)
		require.NoError(t, err)
	}

	newReminder(t, s, "Overdue", fixedNow.Add(-time.Hour))
	newReminder(t, s, "Later", fixedNow.Add(time.Hour))
	done := newReminder(t, s, "Done", fixedNow.Add(-2*time.Hour))
	_, err = s.reminders.Toggle(ctx, testUser, done.ID)
	require.NoError(t, err)

	_, err = s.notes.Create(ctx, testUser, NoteInput{Title: "Idea"})
	require.NoError(t, err)

	summary, err := s.dashboard.Summary(ctx, testUser)
	require.NoError(t, err)

	assert.Equal(t, &Summary{
		Date:             today,
		HabitsTotal:      2,
		HabitsCompleted:  1,
		LongestStreak:    3,
		RemindersPending: 2,
		RemindersOverdue: 1,
		NotesCount:       1,
	}, summary)
}
