package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nzoschke/organizer/internal/metrics"
	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/reconcile"
	"github.com/nzoschke/organizer/internal/repository"
	"github.com/nzoschke/organizer/internal/validation"
)

const (
	HabitFilterActive   = ""
	HabitFilterArchived = "archived"
	HabitFilterAll      = "all"
)

type HabitInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	Category  string `json:"category" validate:"omitempty,oneof=health work personal islamic other"`
	Frequency string `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Icon      string `json:"icon" validate:"max=32"`
	Status    string `json:"status" validate:"omitempty,oneof=active archived"`
}

type HabitService struct {
	habits repository.HabitRepository
	logs   repository.HabitLogRepository
	opts   options
}

func NewHabitService(habits repository.HabitRepository, logs repository.HabitLogRepository, opts ...Option) *HabitService {
	return &HabitService{
		habits: habits,
		logs:   logs,
		opts:   newOptions(opts),
	}
}

func (s *HabitService) Create(ctx context.Context, userID string, in HabitInput) (*model.Habit, error) {
	err := validateHabit(userID, &in)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	habit := &model.Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Category:  in.Category,
		Frequency: in.Frequency,
		Color:     in.Color,
		Icon:      in.Icon,
		Status:    model.HabitStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Status != "" {
		habit.Status = in.Status
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	err = s.habits.Create(ctx, habit)
	if err != nil {
		return nil, storeErr("create habit", err)
	}

	slog.Info("habit created", "user_id", userID, "habit_id", habit.ID)
	return habit, nil
}

// Today is the caller's calendar date.
func (s *HabitService) Today(ctx context.Context) model.Date {
	return s.opts.today(ctx)
}

// Views lists habits with completedToday, streak and history derived from
// the full log. filter is "" (active), "archived" or "all".
func (s *HabitService) Views(ctx context.Context, userID, filter string) ([]model.HabitView, error) {
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}

	status := model.HabitStatusActive
	switch filter {
	case HabitFilterActive:
	case HabitFilterArchived:
		status = model.HabitStatusArchived
	case HabitFilterAll:
		status = ""
	default:
		return nil, invalid("status", "must be one of: archived, all")
	}

	today := s.opts.today(ctx)

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	habits, err := s.habits.Habits(ctx, userID, status)
	if err != nil {
		return nil, storeErr("list habits", err)
	}

	logs, err := s.logs.UserLogs(ctx, userID, model.Date{})
	if err != nil {
		return nil, storeErr("list habit logs", err)
	}

	logsByHabit := make(map[string][]model.HabitLog, len(habits))
	for _, log := range logs {
		logsByHabit[log.HabitID] = append(logsByHabit[log.HabitID], log)
	}

	views := make([]model.HabitView, 0, len(habits))
	for _, habit := range habits {
		views = append(views, reconcile.View(*habit, logsByHabit[habit.ID], today))
	}

	return views, nil
}

// View derives one habit's state from fresh log rows.
func (s *HabitService) View(ctx context.Context, userID, habitID string) (*model.HabitView, error) {
	today := s.opts.today(ctx)

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	habit, err := s.habits.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, storeErr("get habit", err)
	}

	logs, err := s.logs.Logs(ctx, habitID, model.Date{})
	if err != nil {
		return nil, storeErr("list habit logs", err)
	}

	view := reconcile.View(*habit, logs, today)
	return &view, nil
}

// Update replaces the editable fields. An empty status keeps the current one.
func (s *HabitService) Update(ctx context.Context, userID, habitID string, in HabitInput) (*model.Habit, error) {
	err := validateHabit(userID, &in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	// Verify ownership
	habit, err := s.habits.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, storeErr("get habit", err)
	}

	habit.Name = strings.TrimSpace(in.Name)
	habit.Category = in.Category
	habit.Frequency = in.Frequency
	habit.Color = in.Color
	habit.Icon = in.Icon
	if in.Status != "" {
		habit.Status = in.Status
	}
	habit.UpdatedAt = s.opts.now()

	err = s.habits.Update(ctx, habit)
	if err != nil {
		return nil, storeErr("update habit", err)
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	err := s.habits.Delete(ctx, userID, habitID)
	if err != nil {
		return storeErr("delete habit", err)
	}

	slog.Info("habit deleted", "user_id", userID, "habit_id", habitID)
	return nil
}

// Logs returns the habit's rows on or after since, newest first.
func (s *HabitService) Logs(ctx context.Context, userID, habitID string, since model.Date) ([]model.HabitLog, error) {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	// Verify ownership
	_, err := s.habits.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, storeErr("get habit", err)
	}

	logs, err := s.logs.Logs(ctx, habitID, since)
	if err != nil {
		return nil, storeErr("list habit logs", err)
	}

	return logs, nil
}

// ToggleHabit records desired as the completion of habitID on date with a
// single upsert. A zero date means the caller's today. A nil desired inverts
// whatever is stored for that day, so an absent row becomes completed.
// The stored row is returned; streak and history are left to the read side.
func (s *HabitService) ToggleHabit(ctx context.Context, userID, habitID string, date model.Date, desired *bool, notes *string) (*model.HabitLog, error) {
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}
	if date.IsZero() {
		date = s.opts.today(ctx)
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	_, err := s.activeHabit(ctx, userID, habitID)
	if err != nil {
		metrics.HabitToggles.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	completed := true
	if desired != nil {
		completed = *desired
	} else {
		current, err := s.logs.ByDate(ctx, habitID, date)
		switch {
		case errors.Is(err, repository.ErrHabitLogNotFound):
		case err != nil:
			metrics.HabitToggles.WithLabelValues(metrics.ResultError).Inc()
			return nil, storeErr("get habit log", err)
		default:
			completed = !current.Completed
		}
	}

	log, err := s.upsert(ctx, userID, habitID, date, completed, false, notes)
	if err != nil {
		metrics.HabitToggles.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	metrics.HabitToggles.WithLabelValues(metrics.ResultOK).Inc()
	slog.Debug("habit toggled", "user_id", userID, "habit_id", habitID, "date", date.String(), "completed", completed)
	return log, nil
}

// Skip marks date as deliberately skipped. The day counts as not completed.
func (s *HabitService) Skip(ctx context.Context, userID, habitID string, date model.Date, notes *string) (*model.HabitLog, error) {
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}
	if date.IsZero() {
		date = s.opts.today(ctx)
	}

	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	_, err := s.activeHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	return s.upsert(ctx, userID, habitID, date, false, true, notes)
}

func (s *HabitService) activeHabit(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit, err := s.habits.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, storeErr("get habit", err)
	}

	if !habit.IsActive() {
		return nil, &notFoundError{err: repository.ErrHabitNotFound}
	}

	return habit, nil
}

func (s *HabitService) upsert(ctx context.Context, userID, habitID string, date model.Date, completed, skipped bool, notes *string) (*model.HabitLog, error) {
	now := s.opts.now()
	log := &model.HabitLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		HabitID:   habitID,
		Date:      date,
		Completed: completed,
		Skipped:   skipped,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := s.logs.Upsert(ctx, log)
	if err != nil {
		slog.Error("habit log upsert failed", "user_id", userID, "habit_id", habitID, "error", err)
		return nil, storeErr("upsert habit log", err)
	}

	return stored, nil
}

func validateHabit(userID string, in *HabitInput) error {
	if userID == "" {
		return invalid("user_id", "is required")
	}

	err := validation.ValidateName("name", in.Name)
	if err != nil {
		return fieldErr(err)
	}

	err = validation.Struct(in)
	if err != nil {
		return fieldErr(err)
	}

	if in.Category == "" {
		in.Category = model.HabitCategoryOther
	}
	if in.Frequency == "" {
		in.Frequency = model.HabitFrequencyDaily
	}

	return nil
}

// fieldErr lifts a validation.FieldError into the service taxonomy.
func fieldErr(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return invalid(fe.Field, fe.Message)
	}
	return invalid("", err.Error())
}
