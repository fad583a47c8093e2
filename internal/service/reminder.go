package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nzoschke/organizer/internal/metrics"
	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/repository"
	"github.com/nzoschke/organizer/internal/validation"
)

type ReminderInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"max=2000"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    string    `json:"category" validate:"omitempty,oneof=work personal health finance islamic general"`
}

type ReminderService struct {
	repo repository.ReminderRepository
	opts options
}

func NewReminderService(repo repository.ReminderRepository, opts ...Option) *ReminderService {
	return &ReminderService{
		repo: repo,
		opts: newOptions(opts),
	}
}

func (s *ReminderService) Create(ctx context.Context, userID string, in ReminderInput) (*model.Reminder, error) {
	err := validateReminder(userID, &in)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	reminder := &model.Reminder{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Category:    in.Category,
		Status:      model.ReminderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	err = s.repo.Create(ctx, reminder)
	if err != nil {
		return nil, storeErr("create reminder", err)
	}

	slog.Info("reminder created", "user_id", userID, "reminder_id", reminder.ID)
	return reminder, nil
}

func (s *ReminderService) ByID(ctx context.Context, userID, reminderID string) (*model.Reminder, error) {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	reminder, err := s.repo.ByID(ctx, userID, reminderID)
	if err != nil {
		return nil, storeErr("get reminder", err)
	}

	return reminder, nil
}

// Reminders lists by due date. An empty status returns every reminder.
func (s *ReminderService) Reminders(ctx context.Context, userID, status string) ([]*model.Reminder, error) {
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}
	if status != "" && !model.ValidReminderStatus(status) {
		return nil, invalid("status", "must be one of: pending, completed")
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	reminders, err := s.repo.Reminders(ctx, userID, status)
	if err != nil {
		return nil, storeErr("list reminders", err)
	}

	return reminders, nil
}

// Update edits the reminder's fields. Status only moves through Toggle.
func (s *ReminderService) Update(ctx context.Context, userID, reminderID string, in ReminderInput) (*model.Reminder, error) {
	err := validateReminder(userID, &in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	// Verify ownership
	reminder, err := s.repo.ByID(ctx, userID, reminderID)
	if err != nil {
		return nil, storeErr("get reminder", err)
	}

	reminder.Title = strings.TrimSpace(in.Title)
	reminder.Description = in.Description
	reminder.DueDate = in.DueDate
	reminder.Priority = in.Priority
	reminder.Category = in.Category
	reminder.UpdatedAt = s.opts.now()

	err = s.repo.Update(ctx, reminder)
	if err != nil {
		return nil, storeErr("update reminder", err)
	}

	return reminder, nil
}

func (s *ReminderService) Delete(ctx context.Context, userID, reminderID string) error {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	err := s.repo.Delete(ctx, userID, reminderID)
	if err != nil {
		return storeErr("delete reminder", err)
	}

	return nil
}

// Toggle flips the reminder between pending and completed. The status read
// first is the guard of the write, so a concurrent change in between turns
// into a ConflictError instead of a blind overwrite.
func (s *ReminderService) Toggle(ctx context.Context, userID, reminderID string) (*model.Reminder, error) {
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	current, err := s.repo.State(ctx, userID, reminderID)
	if err != nil {
		metrics.ReminderToggles.WithLabelValues(metrics.ResultError).Inc()
		return nil, storeErr("get reminder status", err)
	}

	now := s.opts.now()
	next := current.Toggled(now)

	reminder, err := s.repo.SetStateIf(ctx, userID, reminderID, current.Status, next, now)
	if errors.Is(err, repository.ErrReminderStateChanged) {
		metrics.ReminderToggles.WithLabelValues(metrics.ResultConflict).Inc()
		slog.Warn("reminder toggle lost race", "user_id", userID, "reminder_id", reminderID, "expected", current.Status)
		return nil, &ConflictError{Resource: "reminder", ID: reminderID}
	}
	if err != nil {
		metrics.ReminderToggles.WithLabelValues(metrics.ResultError).Inc()
		return nil, storeErr("set reminder status", err)
	}

	metrics.ReminderToggles.WithLabelValues(metrics.ResultOK).Inc()
	return reminder, nil
}

func validateReminder(userID string, in *ReminderInput) error {
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

	if in.Priority == "" {
		in.Priority = model.ReminderPriorityMedium
	}
	if in.Category == "" {
		in.Category = model.ReminderCategoryGeneral
	}

	return nil
}
