package shared

import (
	"strings"
	"time"

	"hrperf/internal/domain/apperr"
)

const dateReason = "must be a valid date in YYYY-MM-DD format"

// ParseDate accepts RFC3339 or YYYY-MM-DD. Failures are reported against field.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, apperr.Invalid(field, dateReason)
	}
	return parsed, nil
}

// ParseOptionalDate returns nil for an empty value.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	parsed, err := ParseDate(field, value)
	if err != nil || parsed.IsZero() {
		return nil, err
	}
	return &parsed, nil
}
