package model

import "time"

// HabitLog records one habit on one calendar day. (habit_id, date) is unique.
type HabitLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	HabitID   string    `db:"habit_id" json:"habit_id"`
	Date      Date      `db:"date" json:"date"`
	Completed bool      `db:"completed" json:"completed"`
	Skipped   bool      `db:"skipped" json:"skipped"`
	Notes     *string   `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
