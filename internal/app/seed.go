package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/service"
)

const (
	seedHabitName    = "Read 30 mins"
	seedReminderName = "Pay Electricity Bill"
	seedStreakDays   = 5
)

// Seed gives userID a habit completed for the last five days through today
// and a pending reminder due in two days. Running it twice adds nothing.
func (a *App) Seed(ctx context.Context, userID string) error {
	views, err := a.HabitService.Views(ctx, userID, service.HabitFilterAll)
	if err != nil {
		return err
	}
	for _, view := range views {
		if view.Name == seedHabitName {
			slog.Info("seed data already present", "user_id", userID)
			return nil
		}
	}

	habit, err := a.HabitService.Create(ctx, userID, service.HabitInput{
		Name:     seedHabitName,
		Category: model.HabitCategoryPersonal,
		Color:    "#4f46e5",
		Icon:     "book",
	})
	if err != nil {
		return err
	}

	today := a.HabitService.Today(ctx)
	completed := true
	for offset := seedStreakDays - 1; offset >= 0; offset-- {
		_, err := a.HabitService.ToggleHabit(ctx, userID, habit.ID, today.AddDays(-offset), &completed, nil)
		if err != nil {
			return err
		}
	}

	_, err = a.ReminderService.Create(ctx, userID, service.ReminderInput{
		Title:    seedReminderName,
		DueDate:  today.AddDays(2).Time(a.Cfg.Location()).Add(9 * time.Hour),
		Priority: model.ReminderPriorityHigh,
		Category: model.ReminderCategoryFinance,
	})
	if err != nil {
		return err
	}

	slog.Info("seed data created", "user_id", userID, "habit_id", habit.ID)
	return nil
}
