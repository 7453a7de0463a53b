package trackersvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mkrupp/exercise-tracker/internal/domain"
	"github.com/mkrupp/exercise-tracker/internal/infra/logging"
	"github.com/mkrupp/exercise-tracker/internal/repo/user"
)

// ExerciseService appends exercise records to a user's history.
type ExerciseService struct {
	UserRepo user.Repository
	Log      logging.Logger
}

// NewExerciseService creates a new ExerciseService backed by the given repository.
func NewExerciseService(userRepo user.Repository) *ExerciseService {
	return &ExerciseService{
		UserRepo: userRepo,
		Log:      logging.GetLogger("svc.trackersvc.exercise_service"),
	}
}

// AddExercise appends an exercise to the user's log and increments the
// exercise count, persisting both with a single save. The duration must
// parse as a number; any numeric string is accepted and fractions are
// truncated. An empty date means the current date.
//
// The read-modify-write here is not atomic: two concurrent appends for
// the same user can lose an entry. See the service tests.
func (s *ExerciseService) AddExercise(
	ctx context.Context,
	userID, duration, date, description string,
) (_ *domain.ExerciseResponse, err error) {
	log := s.Log.With(logging.Group("user", "id", userID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "add exercise failed", "error", err)
		} else {
			log.DebugContext(ctx, "exercise added")
		}
	}()

	target, ok, err := s.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return nil, domain.ErrUserNotFound
	}

	durationValue, err := parseDuration(duration)
	if err != nil {
		return nil, err
	}

	exerciseDate := time.Now()

	if date != "" {
		exerciseDate, err = parseDate(date)
		if err != nil {
			return nil, err
		}
	}

	exercise := domain.Exercise{
		Duration:    durationValue,
		Date:        exerciseDate,
		Description: description,
	}

	target.Log = append(target.Log, exercise)
	target.Count++

	if err := s.UserRepo.SaveUser(ctx, target); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	return &domain.ExerciseResponse{
		ID:          target.ID,
		Username:    target.Username,
		Duration:    exercise.Duration,
		Date:        formatDate(exercise.Date),
		Description: exercise.Description,
	}, nil
}

// parseDuration accepts any numeric string, matching the permissive
// validation this endpoint has always had. Negative and fractional
// values pass; fractions are truncated toward zero.
func parseDuration(value string) (int64, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Join(domain.ErrInvalidDuration, err)
	}

	return int64(parsed), nil
}
