package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nzoschke/organizer/internal/model"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	ByID(ctx context.Context, userID, noteID string) (*model.Note, error)
	Notes(ctx context.Context, userID string) ([]*model.Note, error)
	Count(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, userID, noteID string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	query := `INSERT INTO notes (id, user_id, title, body, pinned, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Body,
		note.Pinned,
		note.CreatedAt,
		note.UpdatedAt,
	)

	return err
}

func (r *noteRepository) ByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, note, query, noteID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	return note, nil
}

// Notes lists pinned notes first, then most recently edited.
func (r *noteRepository) Notes(ctx context.Context, userID string) ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT * FROM notes WHERE user_id = $1 ORDER BY pinned DESC, updated_at DESC`

	err := r.db.SelectContext(ctx, &notes, query, userID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notes WHERE user_id = $1`, userID)
	return count, err
}

func (r *noteRepository) Update(ctx context.Context, note *model.Note) error {
	query := `UPDATE notes
	          SET title = $1, body = $2, pinned = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	result, err := r.db.ExecContext(ctx, query,
		note.Title,
		note.Body,
		note.Pinned,
		note.UpdatedAt,
		note.ID,
		note.UserID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrNoteNotFound)
}

func (r *noteRepository) Delete(ctx context.Context, userID, noteID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrNoteNotFound)
}
