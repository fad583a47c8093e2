package client

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/optimistic"
)

// Board is the client's local copy of habits and reminders. Toggles show a
// guessed result immediately and settle on the server's answer, or revert
// to exactly what was shown before when the write fails.
type Board struct {
	client    *Client
	habits    *optimistic.Store[string, model.HabitView]
	reminders *optimistic.Store[string, Reminder]
	now       func() time.Time

	mu    sync.Mutex
	stale map[string]bool // habits written but not re-read from the server
}

func NewBoard(client *Client) *Board {
	return &Board{
		client:    client,
		habits:    optimistic.NewStore[string, model.HabitView](),
		reminders: optimistic.NewStore[string, Reminder](),
		now:       time.Now,
		stale:     map[string]bool{},
	}
}

// Refresh replaces local state with the server's.
func (b *Board) Refresh(ctx context.Context) error {
	views, err := b.client.Habits(ctx)
	if err != nil {
		return err
	}

	reminders, err := b.client.Reminders(ctx, "")
	if err != nil {
		return err
	}

	habitState := make(map[string]model.HabitView, len(views))
	for _, view := range views {
		habitState[view.ID] = view
	}
	b.habits.Replace(habitState)

	b.mu.Lock()
	clear(b.stale)
	b.mu.Unlock()

	reminderState := make(map[string]Reminder, len(reminders))
	for _, reminder := range reminders {
		reminderState[reminder.ID] = reminder
	}
	b.reminders.Replace(reminderState)

	return nil
}

// Habits returns local habit views ordered by name.
func (b *Board) Habits() []model.HabitView {
	views := make([]model.HabitView, 0)
	for _, view := range b.habits.Snapshot() {
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}

// Reminders returns local reminders ordered by due date.
func (b *Board) Reminders() []Reminder {
	reminders := make([]Reminder, 0)
	for _, reminder := range b.reminders.Snapshot() {
		reminders = append(reminders, reminder)
	}
	sort.Slice(reminders, func(i, j int) bool { return reminders[i].DueDate.Before(reminders[j].DueDate) })
	return reminders
}

func (b *Board) Habit(id string) (model.HabitView, bool) {
	return b.habits.Get(id)
}

func (b *Board) Reminder(id string) (Reminder, bool) {
	return b.reminders.Get(id)
}

// Stale reports whether the habit's local view is a guess whose write
// succeeded but whose refetch did not.
func (b *Board) Stale(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stale[id]
}

func (b *Board) setStale(id string, stale bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if stale {
		b.stale[id] = true
	} else {
		delete(b.stale, id)
	}
}

// ToggleHabit flips today's completion as shown locally. The write carries
// the shown day and the desired value, so retrying it is idempotent. Only a
// failed write rolls back. Once the write lands the view is re-read; if that
// read fails the guess stays in place and the habit is marked stale until
// the next successful read.
func (b *Board) ToggleHabit(ctx context.Context, id string) (model.HabitView, error) {
	prior, err := b.habit(ctx, id)
	if err != nil {
		return model.HabitView{}, err
	}

	guessed := guessHabitToggle(prior)
	desired := guessed.CompletedToday

	// Today as the server sees it is the newest history entry
	var date model.Date
	if len(prior.History) > 0 {
		date = prior.History[0].Date
	}

	_, err = optimistic.Apply(ctx, b.habits, id, func(model.HabitView) model.HabitView {
		return guessed
	}, func(ctx context.Context) (model.HabitView, error) {
		_, err := b.client.ToggleHabit(ctx, id, date, &desired)
		if err != nil {
			return model.HabitView{}, err
		}
		return guessed, nil
	})
	if err != nil {
		return model.HabitView{}, err
	}

	view, err := b.client.Habit(ctx, id)
	if err != nil {
		slog.Warn("habit refetch failed, keeping local guess", "habit_id", id, "error", err)
		b.setStale(id, true)
		return guessed, nil
	}

	b.habits.Set(id, *view)
	b.setStale(id, false)
	return *view, nil
}

// habit returns the local view, re-reading it first when it is stale or
// missing.
func (b *Board) habit(ctx context.Context, id string) (model.HabitView, error) {
	view, ok := b.habits.Get(id)
	if ok && !b.Stale(id) {
		return view, nil
	}

	fresh, err := b.client.Habit(ctx, id)
	if err != nil {
		if ok {
			return view, nil
		}
		return model.HabitView{}, err
	}

	b.habits.Set(id, *fresh)
	b.setStale(id, false)
	return *fresh, nil
}

func (b *Board) ToggleReminder(ctx context.Context, id string) (Reminder, error) {
	now := b.now()
	return optimistic.Apply(ctx, b.reminders, id, func(prior Reminder) Reminder {
		return guessReminderToggle(prior, now)
	}, func(ctx context.Context) (Reminder, error) {
		reminder, err := b.client.ToggleReminder(ctx, id)
		if err != nil {
			return Reminder{}, err
		}
		return *reminder, nil
	})
}

// guessHabitToggle predicts the view after flipping today: completing today
// extends the streak by one and undoing it removes today from the streak.
func guessHabitToggle(prior model.HabitView) model.HabitView {
	next := prior
	next.History = slices.Clone(prior.History)
	next.CompletedToday = !prior.CompletedToday

	if next.CompletedToday {
		next.Streak = prior.Streak + 1
	} else {
		next.Streak = max(prior.Streak-1, 0)
	}

	if len(next.History) > 0 {
		next.History[0].Status = model.HistoryMissed
		if next.CompletedToday {
			next.History[0].Status = model.HistoryCompleted
		}
	}

	return next
}

func guessReminderToggle(prior Reminder, now time.Time) Reminder {
	next := prior
	if prior.Completed {
		next.Status = model.ReminderStatusPending
		next.Completed = false
		next.CompletedAt = nil
	} else {
		next.Status = model.ReminderStatusCompleted
		next.Completed = true
		next.CompletedAt = &now
	}
	return next
}
