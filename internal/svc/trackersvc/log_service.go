package trackersvc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mkrupp/exercise-tracker/internal/domain"
	"github.com/mkrupp/exercise-tracker/internal/infra/logging"
	"github.com/mkrupp/exercise-tracker/internal/repo/user"
)

// LogService answers exercise log queries with optional date-range
// filtering and result limiting.
type LogService struct {
	UserRepo user.Repository
	Log      logging.Logger
}

// NewLogService creates a new LogService backed by the given repository.
func NewLogService(userRepo user.Repository) *LogService {
	return &LogService{
		UserRepo: userRepo,
		Log:      logging.GetLogger("svc.trackersvc.log_service"),
	}
}

// GetLog retrieves a user's exercise history. Entries dated strictly
// before `from` or strictly after `to` are dropped; exact boundary
// matches are kept. `limit` truncates the filtered sequence to a prefix
// of the stored order. Unparseable filter values are treated as unset,
// as is a limit of zero or less. The response count is the total number
// of exercises ever recorded, not the filtered length.
func (s *LogService) GetLog(
	ctx context.Context,
	userID, from, to, limit string,
) (_ *domain.LogResponse, err error) {
	log := s.Log.With(logging.Group("user", "id", userID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "get log failed", "error", err)
		} else {
			log.DebugContext(ctx, "log retrieved")
		}
	}()

	target, ok, err := s.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return nil, domain.ErrUserNotFound
	}

	fromDate, hasFrom := parseFilterDate(from)
	toDate, hasTo := parseFilterDate(to)
	maxEntries, hasLimit := parseLimit(limit)

	entries := make([]domain.LogEntry, 0, len(target.Log))

	for _, exercise := range target.Log {
		if hasFrom && exercise.Date.Before(fromDate) {
			continue
		}

		if hasTo && exercise.Date.After(toDate) {
			continue
		}

		entries = append(entries, domain.LogEntry{
			Description: exercise.Description,
			Duration:    exercise.Duration,
			Date:        formatDate(exercise.Date),
		})

		if hasLimit && len(entries) >= maxEntries {
			break
		}
	}

	return &domain.LogResponse{
		ID:       target.ID,
		Username: target.Username,
		Count:    target.Count,
		Log:      entries,
	}, nil
}

func parseFilterDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	date, err := parseDate(value)
	if err != nil {
		return time.Time{}, false
	}

	return date, true
}

func parseLimit(value string) (int, bool) {
	if value == "" {
		return 0, false
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, false
	}

	return limit, true
}
