package trackersvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/exercise-tracker/internal/domain"
	"github.com/mkrupp/exercise-tracker/internal/infra/logging"
	"github.com/mkrupp/exercise-tracker/internal/repo/user"
)

// UserService creates and lists tracked users.
type UserService struct {
	UserRepo user.Repository
	Log      logging.Logger
}

// NewUserService creates a new UserService backed by the given repository.
func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Log:      logging.GetLogger("svc.trackersvc.user_service"),
	}
}

// CreateUser stores a new user with an empty exercise log.
// Usernames are not checked for uniqueness; duplicates are permitted.
func (s *UserService) CreateUser(ctx context.Context, username string) (_ *domain.UserResponse, err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "create user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user created")
		}
	}()

	newUser, err := s.UserRepo.CreateUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &domain.UserResponse{
		ID:       newUser.ID,
		Username: newUser.Username,
	}, nil
}

// ListUsers returns all stored users, projected to id and username.
// The listing is unbounded; there is no pagination.
func (s *UserService) ListUsers(ctx context.Context) (_ []domain.UserResponse, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "list users failed", "error", err)
		} else {
			log.DebugContext(ctx, "users listed")
		}
	}()

	users, err := s.UserRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	responses := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, domain.UserResponse{
			ID:       u.ID,
			Username: u.Username,
		})
	}

	return responses, nil
}
