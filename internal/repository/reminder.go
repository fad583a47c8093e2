package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nzoschke/organizer/internal/model"
)

var (
	ErrReminderNotFound     = errors.New("reminder not found")
	ErrReminderStateChanged = errors.New("reminder status changed concurrently")
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	ByID(ctx context.Context, userID, reminderID string) (*model.Reminder, error)
	Reminders(ctx context.Context, userID, status string) ([]*model.Reminder, error)
	Update(ctx context.Context, reminder *model.Reminder) error
	Delete(ctx context.Context, userID, reminderID string) error

	State(ctx context.Context, userID, reminderID string) (model.ReminderState, error)
	SetStateIf(ctx context.Context, userID, reminderID, expected string, state model.ReminderState, updatedAt time.Time) (*model.Reminder, error)
}

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `INSERT INTO reminders (id, user_id, title, description, due_date, priority, category, status, completed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Title,
		reminder.Description,
		reminder.DueDate,
		reminder.Priority,
		reminder.Category,
		reminder.Status,
		reminder.CompletedAt,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)

	return err
}

func (r *reminderRepository) ByID(ctx context.Context, userID, reminderID string) (*model.Reminder, error) {
	reminder := &model.Reminder{}
	query := `SELECT * FROM reminders WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, reminder, query, reminderID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReminderNotFound
	}
	if err != nil {
		return nil, err
	}

	return reminder, nil
}

// Reminders lists by due date. An empty status returns all of them.
func (r *reminderRepository) Reminders(ctx context.Context, userID, status string) ([]*model.Reminder, error) {
	var reminders []*model.Reminder

	query := `SELECT * FROM reminders WHERE user_id = $1 ORDER BY due_date ASC`
	args := []any{userID}
	if status != "" {
		query = `SELECT * FROM reminders WHERE user_id = $1 AND status = $2 ORDER BY due_date ASC`
		args = append(args, status)
	}

	err := r.db.SelectContext(ctx, &reminders, query, args...)
	if err != nil {
		return nil, err
	}

	return reminders, nil
}

// Update writes the editable fields. Status only changes through SetStateIf.
func (r *reminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	query := `UPDATE reminders
	          SET title = $1, description = $2, due_date = $3, priority = $4, category = $5, updated_at = $6
	          WHERE id = $7 AND user_id = $8`

	result, err := r.db.ExecContext(ctx, query,
		reminder.Title,
		reminder.Description,
		reminder.DueDate,
		reminder.Priority,
		reminder.Category,
		reminder.UpdatedAt,
		reminder.ID,
		reminder.UserID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrReminderNotFound)
}

func (r *reminderRepository) Delete(ctx context.Context, userID, reminderID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1 AND user_id = $2`, reminderID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrReminderNotFound)
}

func (r *reminderRepository) State(ctx context.Context, userID, reminderID string) (model.ReminderState, error) {
	var state model.ReminderState
	query := `SELECT status, completed_at FROM reminders WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &state, query, reminderID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return state, ErrReminderNotFound
	}
	return state, err
}

// SetStateIf writes status and completed_at in one statement, guarded by the
// status the caller read. When no row matches it tells a missing reminder
// apart from one whose status moved.
func (r *reminderRepository) SetStateIf(ctx context.Context, userID, reminderID, expected string, state model.ReminderState, updatedAt time.Time) (*model.Reminder, error) {
	query := `UPDATE reminders
	          SET status = $1, completed_at = $2, updated_at = $3
	          WHERE id = $4 AND user_id = $5 AND status = $6
	          RETURNING *`

	reminder := &model.Reminder{}
	err := r.db.GetContext(ctx, reminder, query, state.Status, state.CompletedAt, updatedAt, reminderID, userID, expected)
	if errors.Is(err, sql.ErrNoRows) {
		_, stateErr := r.State(ctx, userID, reminderID)
		if stateErr != nil {
			return nil, stateErr
		}
		return nil, ErrReminderStateChanged
	}
	if err != nil {
		return nil, err
	}

	return reminder, nil
}
