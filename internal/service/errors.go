package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nzoschke/organizer/internal/repository"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage unavailable")
	ErrConflict   = errors.New("conflict")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a failed store round trip. It matches both ErrStorage
// and the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// ConflictError reports a write that lost a race against another writer.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// notFoundError keeps the repository message and matches ErrNotFound.
type notFoundError struct {
	err error
}

func (e *notFoundError) Error() string   { return e.err.Error() }
func (e *notFoundError) Unwrap() []error { return []error{ErrNotFound, e.err} }

var notFoundErrors = []error{
	repository.ErrHabitNotFound,
	repository.ErrHabitLogNotFound,
	repository.ErrReminderNotFound,
	repository.ErrNoteNotFound,
}

// storeErr classifies a repository error. Not-found sentinels keep their
// message and gain ErrNotFound; everything else becomes a StorageError.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return &notFoundError{err: sentinel}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &StorageError{Op: op, Err: fmt.Errorf("timed out: %w", err)}
	}
	return &StorageError{Op: op, Err: err}
}
