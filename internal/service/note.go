package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nzoschke/organizer/internal/markdown"
	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/repository"
	"github.com/nzoschke/organizer/internal/validation"
)

type NoteInput struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"max=20000"`
	Pinned bool   `json:"pinned"`
}

type NoteService struct {
	repo   repository.NoteRepository
	parser *markdown.Parser
	opts   options
}

func NewNoteService(repo repository.NoteRepository, parser *markdown.Parser, opts ...Option) *NoteService {
	return &NoteService{
		repo:   repo,
		parser: parser,
		opts:   newOptions(opts),
	}
}

func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (*model.Note, error) {
	err := validateNote(userID, &in)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     strings.TrimSpace(in.Title),
		Body:      in.Body,
		Pinned:    in.Pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	err = s.repo.Create(ctx, note)
	if err != nil {
		return nil, storeErr("create note", err)
	}

	return note, s.render(note)
}

func (s *NoteService) ByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, storeErr("get note", err)
	}

	return note, s.render(note)
}

func (s *NoteService) Notes(ctx context.Context, userID string) ([]*model.Note, error) {
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	notes, err := s.repo.Notes(ctx, userID)
	if err != nil {
		return nil, storeErr("list notes", err)
	}

	for _, note := range notes {
		err = s.render(note)
		if err != nil {
			return nil, err
		}
	}

	return notes, nil
}

func (s *NoteService) Count(ctx context.Context, userID string) (int, error) {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		return 0, storeErr("count notes", err)
	}

	return count, nil
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, in NoteInput) (*model.Note, error) {
	err := validateNote(userID, &in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	// Verify ownership
	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, storeErr("get note", err)
	}

	note.Title = strings.TrimSpace(in.Title)
	note.Body = in.Body
	note.Pinned = in.Pinned
	note.UpdatedAt = s.opts.now()

	err = s.repo.Update(ctx, note)
	if err != nil {
		return nil, storeErr("update note", err)
	}

	return note, s.render(note)
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	err := s.repo.Delete(ctx, userID, noteID)
	if err != nil {
		return storeErr("delete note", err)
	}

	return nil
}

func (s *NoteService) render(note *model.Note) error {
	doc, err := s.parser.Render(note.Body)
	if err != nil {
		return err
	}

	note.HTML = doc.HTML
	note.Tags = doc.Tags
	return nil
}

func validateNote(userID string, in *NoteInput) error {
	if userID == "" {
		return invalid("user_id", "is required")
	}

	err := validation.ValidateName("title", in.Title)
	if err != nil {
		return fieldErr(err)
	}

	err = validation.Struct(in)
	if err != nil {
		return fieldErr(err)
	}

	return nil
}
