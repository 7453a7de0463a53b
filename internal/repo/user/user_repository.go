package user

import (
	"context"

	"github.com/mkrupp/exercise-tracker/internal/domain"
)

// Repository defines the interface for user data persistence.
// Each call is a single atomic document read or write; no transactions
// span multiple calls.
type Repository interface {
	// CreateUser stores a new user with an empty exercise log and
	// returns it with its assigned identifier.
	CreateUser(ctx context.Context, username string) (*domain.User, error)

	// GetUserByID retrieves a user by their identifier.
	// Returns the user and true if found, or nil and false if not found.
	// Returns an error if the operation fails.
	GetUserByID(ctx context.Context, id string) (*domain.User, bool, error)

	// SaveUser persists the full user record, including count and
	// embedded exercise log, as one write.
	SaveUser(ctx context.Context, user *domain.User) error

	// ListUsers returns all stored users in creation order.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Close releases any resources held by the repository.
	// Returns an error if cleanup fails.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
