package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nzoschke/organizer/internal/model"
)

var (
	ErrHabitLogNotFound = errors.New("habit log not found")
)

type HabitLogRepository interface {
	Upsert(ctx context.Context, log *model.HabitLog) (*model.HabitLog, error)
	ByDate(ctx context.Context, habitID string, date model.Date) (*model.HabitLog, error)
	Logs(ctx context.Context, habitID string, since model.Date) ([]model.HabitLog, error)
	UserLogs(ctx context.Context, userID string, since model.Date) ([]model.HabitLog, error)
}

type habitLogRepository struct {
	db *sqlx.DB
}

func NewHabitLogRepository(db *sqlx.DB) HabitLogRepository {
	return &habitLogRepository{db: db}
}

const habitLogColumns = `id, user_id, habit_id, date, completed, skipped, notes, created_at, updated_at`

// Upsert writes the row for (habit_id, date) in a single statement: the
// first write for a day inserts, later writes overwrite completed, skipped
// and updated_at in place. A nil Notes keeps whatever notes are stored.
// The returned row is the stored one, including its original id and
// created_at when it already existed.
func (r *habitLogRepository) Upsert(ctx context.Context, log *model.HabitLog) (*model.HabitLog, error) {
	query := `INSERT INTO habit_logs (` + habitLogColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (habit_id, date) DO UPDATE
	          SET completed = excluded.completed,
	              skipped = excluded.skipped,
	              notes = COALESCE(excluded.notes, habit_logs.notes),
	              updated_at = excluded.updated_at
	          RETURNING ` + habitLogColumns

	stored := &model.HabitLog{}
	err := r.db.GetContext(ctx, stored, query,
		log.ID,
		log.UserID,
		log.HabitID,
		log.Date,
		log.Completed,
		log.Skipped,
		log.Notes,
		log.CreatedAt,
		log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (r *habitLogRepository) ByDate(ctx context.Context, habitID string, date model.Date) (*model.HabitLog, error) {
	log := &model.HabitLog{}
	query := `SELECT ` + habitLogColumns + ` FROM habit_logs WHERE habit_id = $1 AND date = $2`

	err := r.db.GetContext(ctx, log, query, habitID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHabitLogNotFound
	}
	if err != nil {
		return nil, err
	}

	return log, nil
}

// Logs returns a habit's rows on or after since, newest first. A zero since
// returns the full log.
func (r *habitLogRepository) Logs(ctx context.Context, habitID string, since model.Date) ([]model.HabitLog, error) {
	logs := []model.HabitLog{}

	var err error
	if since.IsZero() {
		query := `SELECT ` + habitLogColumns + ` FROM habit_logs WHERE habit_id = $1 ORDER BY date DESC`
		err = r.db.SelectContext(ctx, &logs, query, habitID)
	} else {
		query := `SELECT ` + habitLogColumns + ` FROM habit_logs WHERE habit_id = $1 AND date >= $2 ORDER BY date DESC`
		err = r.db.SelectContext(ctx, &logs, query, habitID, since)
	}
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// UserLogs returns every habit's rows for a user on or after since, used to
// build all habit views with one query.
func (r *habitLogRepository) UserLogs(ctx context.Context, userID string, since model.Date) ([]model.HabitLog, error) {
	logs := []model.HabitLog{}

	var err error
	if since.IsZero() {
		query := `SELECT ` + habitLogColumns + ` FROM habit_logs WHERE user_id = $1 ORDER BY habit_id, date DESC`
		err = r.db.SelectContext(ctx, &logs, query, userID)
	} else {
		query := `SELECT ` + habitLogColumns + ` FROM habit_logs WHERE user_id = $1 AND date >= $2 ORDER BY habit_id, date DESC`
		err = r.db.SelectContext(ctx, &logs, query, userID, since)
	}
	if err != nil {
		return nil, err
	}

	return logs, nil
}
