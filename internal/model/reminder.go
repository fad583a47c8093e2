package model

import (
	"slices"
	"time"
)

const (
	ReminderStatusPending   = "pending"
	ReminderStatusCompleted = "completed"
)

const (
	ReminderPriorityLow    = "low"
	ReminderPriorityMedium = "medium"
	ReminderPriorityHigh   = "high"
)

const (
	ReminderCategoryWork     = "work"
	ReminderCategoryPersonal = "personal"
	ReminderCategoryHealth   = "health"
	ReminderCategoryFinance  = "finance"
	ReminderCategoryIslamic  = "islamic"
	ReminderCategoryGeneral  = "general"
)

var (
	ReminderStatuses   = []string{ReminderStatusPending, ReminderStatusCompleted}
	ReminderPriorities = []string{ReminderPriorityLow, ReminderPriorityMedium, ReminderPriorityHigh}
	ReminderCategories = []string{
		ReminderCategoryWork,
		ReminderCategoryPersonal,
		ReminderCategoryHealth,
		ReminderCategoryFinance,
		ReminderCategoryIslamic,
		ReminderCategoryGeneral,
	}
)

// Reminder keeps CompletedAt non-nil exactly when Status is completed.
type Reminder struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	Priority    string     `db:"priority" json:"priority"`
	Category    string     `db:"category" json:"category"`
	Status      string     `db:"status" json:"status"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *Reminder) IsCompleted() bool {
	return r.Status == ReminderStatusCompleted
}

func (r *Reminder) IsOverdue(now time.Time) bool {
	return !r.IsCompleted() && r.DueDate.Before(now)
}

// ReminderState is the (status, completed_at) pair written in one update.
type ReminderState struct {
	Status      string     `db:"status" json:"status"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
}

// Toggled inverts the state. CompletedAt is set to now when completing and
// cleared when reopening.
func (s ReminderState) Toggled(now time.Time) ReminderState {
	if s.Status == ReminderStatusCompleted {
		return ReminderState{Status: ReminderStatusPending}
	}
	return ReminderState{Status: ReminderStatusCompleted, CompletedAt: &now}
}

func ValidReminderStatus(s string) bool   { return slices.Contains(ReminderStatuses, s) }
func ValidReminderPriority(p string) bool { return slices.Contains(ReminderPriorities, p) }
func ValidReminderCategory(c string) bool { return slices.Contains(ReminderCategories, c) }
