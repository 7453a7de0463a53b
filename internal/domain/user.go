package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidDuration is returned when an exercise duration does not parse as a number.
	ErrInvalidDuration = errors.New("duration should be an integer")
	// ErrInvalidDate is returned when a supplied date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// Exercise is a single activity record inside a user's log.
// Exercises have no lifecycle of their own; they exist only embedded in
// their owning user's log and are never updated or deleted.
type Exercise struct {
	Duration    int64     `json:"duration"`    // Duration in minutes
	Date        time.Time `json:"date"`        // Calendar date of the activity
	Description string    `json:"description"` // Free-form description
}

// User represents a tracked user with their embedded exercise history.
type User struct {
	ID        string     // Unique identifier, assigned by the repository on creation
	Username  string     // Display name, not validated for uniqueness
	Count     int        // Total number of exercises ever recorded
	Log       []Exercise // Exercise history in append order
	CreatedAt int64      // Unix timestamp of account creation
}
