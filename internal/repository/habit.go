package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nzoschke/organizer/internal/model"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

type HabitRepository interface {
	Create(ctx context.Context, habit *model.Habit) error
	ByID(ctx context.Context, userID, habitID string) (*model.Habit, error)
	Habits(ctx context.Context, userID, status string) ([]*model.Habit, error)
	Update(ctx context.Context, habit *model.Habit) error
	Delete(ctx context.Context, userID, habitID string) error
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(ctx context.Context, habit *model.Habit) error {
	query := `INSERT INTO habits (id, user_id, name, category, frequency, color, icon, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.Category,
		habit.Frequency,
		habit.Color,
		habit.Icon,
		habit.Status,
		habit.CreatedAt,
		habit.UpdatedAt,
	)

	return err
}

func (r *habitRepository) ByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, habit, query, habitID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}

	return habit, nil
}

// Habits lists a user's habits. An empty status returns all of them.
func (r *habitRepository) Habits(ctx context.Context, userID, status string) ([]*model.Habit, error) {
	var habits []*model.Habit

	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at ASC, name ASC`
	args := []any{userID}
	if status != "" {
		query = `SELECT * FROM habits WHERE user_id = $1 AND status = $2 ORDER BY created_at ASC, name ASC`
		args = append(args, status)
	}

	err := r.db.SelectContext(ctx, &habits, query, args...)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *model.Habit) error {
	query := `UPDATE habits
	          SET name = $1, category = $2, frequency = $3, color = $4, icon = $5, status = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		habit.Name,
		habit.Category,
		habit.Frequency,
		habit.Color,
		habit.Icon,
		habit.Status,
		habit.UpdatedAt,
		habit.ID,
		habit.UserID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrHabitNotFound)
}

// Delete removes the habit and its logs. SQLite only cascades when the
// foreign_keys pragma is on, so logs are deleted explicitly in the same tx.
func (r *habitRepository) Delete(ctx context.Context, userID, habitID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM habit_logs WHERE habit_id = $1 AND user_id = $2`, habitID, userID)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = $1 AND user_id = $2`, habitID, userID)
	if err != nil {
		return err
	}

	err = expectRow(result, ErrHabitNotFound)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// expectRow maps a zero-row write to notFound.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
