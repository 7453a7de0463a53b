package trackersvc

import (
	"fmt"
	"time"

	"github.com/mkrupp/exercise-tracker/internal/domain"
)

// dateLayout is the canonical calendar-date input format (ISO 8601 date).
const dateLayout = "2006-01-02"

// dateDisplayLayout renders dates the human-readable way they appear in
// all responses, e.g. "Thu Jun 15 2023".
const dateDisplayLayout = "Mon Jan 02 2006"

// parseDate parses a caller-supplied date string. Plain calendar dates
// are the common case; full RFC 3339 timestamps are accepted as well.
func parseDate(value string) (time.Time, error) {
	if date, err := time.Parse(dateLayout, value); err == nil {
		return date, nil
	}

	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return date, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, value)
}

// formatDate renders a date for responses. Every date leaving the
// service goes through here so the rendering stays consistent.
func formatDate(date time.Time) string {
	return date.Format(dateDisplayLayout)
}
