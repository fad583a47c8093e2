// Package reconcile derives habit state from the habit log.
//
// Nothing here reads the clock or the database: every function takes the
// log rows and the reference day explicitly, so the same inputs always yield
// the same view.
package reconcile

import (
	"github.com/nzoschke/organizer/internal/model"
)

// HistoryDays is the length of the history window, today included.
const HistoryDays = 30

// byDate indexes logs by calendar day. With the (habit_id, date) uniqueness
// of the store there is at most one row per day for a single habit; if a
// caller passes duplicates anyway the last one wins, matching upsert order.
func byDate(logs []model.HabitLog) map[model.Date]model.HabitLog {
	index := make(map[model.Date]model.HabitLog, len(logs))
	for _, log := range logs {
		index[log.Date] = log
	}
	return index
}

// CompletedOn reports whether a completed log exists for day.
func CompletedOn(logs []model.HabitLog, day model.Date) bool {
	return completed(byDate(logs), day)
}

func completed(index map[model.Date]model.HabitLog, day model.Date) bool {
	log, ok := index[day]
	return ok && log.Completed
}

// Streak counts consecutive completed days walking back from asOf. When asOf
// itself is not completed the walk starts the day before, so an open day
// neither breaks nor extends a streak.
func Streak(logs []model.HabitLog, asOf model.Date) int {
	index := byDate(logs)

	day := asOf
	if !completed(index, day) {
		day = day.AddDays(-1)
	}

	streak := 0
	for completed(index, day) {
		streak++
		day = day.AddDays(-1)
	}
	return streak
}

// History returns one entry per day for the HistoryDays window ending at
// asOf, newest first. Days without a row are missed.
func History(logs []model.HabitLog, asOf model.Date) []model.HistoryEntry {
	index := byDate(logs)

	history := make([]model.HistoryEntry, 0, HistoryDays)
	for offset := 0; offset < HistoryDays; offset++ {
		day := asOf.AddDays(-offset)
		history = append(history, model.HistoryEntry{
			Date:   day,
			Status: statusOf(index, day),
		})
	}
	return history
}

func statusOf(index map[model.Date]model.HabitLog, day model.Date) string {
	log, ok := index[day]
	switch {
	case !ok:
		return model.HistoryMissed
	case log.Completed:
		return model.HistoryCompleted
	case log.Skipped:
		return model.HistorySkipped
	default:
		return model.HistoryMissed
	}
}

// View joins a habit with the state derived from its logs as of today.
func View(habit model.Habit, logs []model.HabitLog, today model.Date) model.HabitView {
	return model.HabitView{
		Habit:          habit,
		CompletedToday: CompletedOn(logs, today),
		Streak:         Streak(logs, today),
		History:        History(logs, today),
	}
}
