package validation

import (
	"strings"
)

const maxNameLength = 100

// ValidateName checks a habit name, reminder title or note title.
func ValidateName(field, name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return &FieldError{Field: field, Message: "is required"}
	}

	if len([]rune(trimmed)) > maxNameLength {
		return &FieldError{Field: field, Message: "is too long (max 100 characters)"}
	}

	return nil
}
