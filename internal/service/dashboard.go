package service

import (
	"context"

	"github.com/nzoschke/organizer/internal/model"
)

// Summary is the day-at-a-glance counts, all derived on read.
type Summary struct {
	Date             model.Date `json:"date"`
	HabitsTotal      int        `json:"habitsTotal"`
	HabitsCompleted  int        `json:"habitsCompleted"`
	LongestStreak    int        `json:"longestStreak"`
	RemindersPending int        `json:"remindersPending"`
	RemindersOverdue int        `json:"remindersOverdue"`
	NotesCount       int        `json:"notesCount"`
}

type DashboardService struct {
	habits    *HabitService
	reminders *ReminderService
	notes     *NoteService
	opts      options
}

func NewDashboardService(habits *HabitService, reminders *ReminderService, notes *NoteService, opts ...Option) *DashboardService {
	return &DashboardService{
		habits:    habits,
		reminders: reminders,
		notes:     notes,
		opts:      newOptions(opts),
	}
}

func (s *DashboardService) Summary(ctx context.Context, userID string) (*Summary, error) {
	views, err := s.habits.Views(ctx, userID, HabitFilterActive)
	if err != nil {
		return nil, err
	}

	pending, err := s.reminders.Reminders(ctx, userID, model.ReminderStatusPending)
	if err != nil {
		return nil, err
	}

	notes, err := s.notes.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Date:             s.opts.today(ctx),
		HabitsTotal:      len(views),
		RemindersPending: len(pending),
		NotesCount:       notes,
	}

	for _, view := range views {
		if view.CompletedToday {
			summary.HabitsCompleted++
		}
		summary.LongestStreak = max(summary.LongestStreak, view.Streak)
	}

	now := s.opts.now()
	for _, reminder := range pending {
		if reminder.IsOverdue(now) {
			summary.RemindersOverdue++
		}
	}

	return summary, nil
}
