package model

import (
	"slices"
	"time"
)

const (
	HabitCategoryHealth   = "health"
	HabitCategoryWork     = "work"
	HabitCategoryPersonal = "personal"
	HabitCategoryIslamic  = "islamic"
	HabitCategoryOther    = "other"
)

const (
	HabitFrequencyDaily  = "daily"
	HabitFrequencyWeekly = "weekly"
	HabitFrequencyCustom = "custom"
)

const (
	HabitStatusActive   = "active"
	HabitStatusArchived = "archived"
)

var (
	HabitCategories  = []string{HabitCategoryHealth, HabitCategoryWork, HabitCategoryPersonal, HabitCategoryIslamic, HabitCategoryOther}
	HabitFrequencies = []string{HabitFrequencyDaily, HabitFrequencyWeekly, HabitFrequencyCustom}
	HabitStatuses    = []string{HabitStatusActive, HabitStatusArchived}
)

// Habit is the static definition. Completion state lives in habit_logs only.
type Habit struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Frequency string    `db:"frequency" json:"frequency"`
	Color     string    `db:"color" json:"color"`
	Icon      string    `db:"icon" json:"icon"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (h *Habit) IsActive() bool {
	return h.Status == HabitStatusActive
}

func ValidHabitCategory(c string) bool  { return slices.Contains(HabitCategories, c) }
func ValidHabitFrequency(f string) bool { return slices.Contains(HabitFrequencies, f) }
func ValidHabitStatus(s string) bool    { return slices.Contains(HabitStatuses, s) }

const (
	HistoryCompleted = "completed"
	HistorySkipped   = "skipped"
	HistoryMissed    = "missed"
)

// HistoryEntry is one calendar day in a habit's history window.
type HistoryEntry struct {
	Date   Date   `json:"date"`
	Status string `json:"status"`
}

// HabitView is a habit joined with state derived from its logs on read.
type HabitView struct {
	Habit
	CompletedToday bool           `json:"completed"`
	Streak         int            `json:"streak"`
	History        []HistoryEntry `json:"history"`
}
