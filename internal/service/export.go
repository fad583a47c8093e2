package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nzoschke/organizer/internal/metrics"
	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/repository"
	"github.com/nzoschke/organizer/internal/storage"
)

// ErrExportUnavailable is returned when no export storage is configured.
var ErrExportUnavailable = errors.New("export storage is not configured")

// Archive is the JSON document written for an export.
type Archive struct {
	UserID     string            `json:"user_id"`
	ExportedAt time.Time         `json:"exported_at"`
	Habits     []*model.Habit    `json:"habits"`
	HabitLogs  []model.HabitLog  `json:"habit_logs"`
	Reminders  []*model.Reminder `json:"reminders"`
	Notes      []*model.Note     `json:"notes"`
}

type Export struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ExportService struct {
	habits    repository.HabitRepository
	logs      repository.HabitLogRepository
	reminders repository.ReminderRepository
	notes     repository.NoteRepository
	storage   storage.Storage
	opts      options
}

// NewExportService accepts a nil storage; Export then reports
// ErrExportUnavailable.
func NewExportService(
	habits repository.HabitRepository,
	logs repository.HabitLogRepository,
	reminders repository.ReminderRepository,
	notes repository.NoteRepository,
	storage storage.Storage,
	opts ...Option,
) *ExportService {
	return &ExportService{
		habits:    habits,
		logs:      logs,
		reminders: reminders,
		notes:     notes,
		storage:   storage,
		opts:      newOptions(opts),
	}
}

func (s *ExportService) Export(ctx context.Context, userID string) (*Export, error) {
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}
	if s.storage == nil {
		return nil, &StorageError{Op: "export", Err: ErrExportUnavailable}
	}

	archive, err := s.archive(ctx, userID)
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	body, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, archive.ExportedAt.UTC().Format("20060102T150405Z"))

	err = s.storage.Save(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultError).Inc()
		return nil, &StorageError{Op: "upload export", Err: err}
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultError).Inc()
		return nil, &StorageError{Op: "presign export", Err: err}
	}

	metrics.Exports.WithLabelValues(metrics.ResultOK).Inc()
	slog.Info("export written", "user_id", userID, "key", key, "bytes", len(body))
	return &Export{Key: key, URL: url}, nil
}

func (s *ExportService) archive(ctx context.Context, userID string) (*Archive, error) {
	ctx, cancel := s.opts.storeContext(ctx)
	defer cancel()

	habits, err := s.habits.Habits(ctx, userID, "")
	if err != nil {
		return nil, storeErr("list habits", err)
	}

	logs, err := s.logs.UserLogs(ctx, userID, model.Date{})
	if err != nil {
		return nil, storeErr("list habit logs", err)
	}

	reminders, err := s.reminders.Reminders(ctx, userID, "")
	if err != nil {
		return nil, storeErr("list reminders", err)
	}

	notes, err := s.notes.Notes(ctx, userID)
	if err != nil {
		return nil, storeErr("list notes", err)
	}

	return &Archive{
		UserID:     userID,
		ExportedAt: s.opts.now(),
		Habits:     habits,
		HabitLogs:  logs,
		Reminders:  reminders,
		Notes:      notes,
	}, nil
}
