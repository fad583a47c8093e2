package validation

import (
	"strings"

	"github.com/nzoschke/organizer/internal/model"
)

// ValidateDate parses an optional YYYY-MM-DD value. An empty value yields the
// zero Date so callers can substitute today.
func ValidateDate(field, value string) (model.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Date{}, nil
	}

	date, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, &FieldError{Field: field, Message: "must be a calendar date (YYYY-MM-DD)"}
	}

	return date, nil
}
