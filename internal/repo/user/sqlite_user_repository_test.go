//go:build integration || all

package user_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkrupp/exercise-tracker/internal/domain"
	"github.com/mkrupp/exercise-tracker/internal/infra/logging"

	. "github.com/mkrupp/exercise-tracker/internal/repo/user"
)

func setupSQLiteTestRepo(t *testing.T) *SQLiteUserRepository {
	t.Helper()

	logging.Configure(context.TODO(), logging.LoggerConfig{
		OutputHandle: os.Stderr,
		Level:        "debug",
	}, "test")

	cfg := SQLiteUserRepositoryConfig{
		DatabasePath: filepath.Join(t.TempDir(), "trackersvc.db"),
	}

	repo, err := NewSQLiteUserRepository(cfg)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close repository: %v", err)
		}
	})

	return repo
}

func TestSQLiteUserRepository_CreateUser(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)

	user, err := repo.CreateUser(context.TODO(), "alice")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() assigned empty id")
	}
	if user.Username != "alice" {
		t.Errorf("CreateUser() username = %q, want %q", user.Username, "alice")
	}
	if user.Count != 0 || len(user.Log) != 0 {
		t.Errorf("CreateUser() count = %d, log length = %d, want 0 and 0", user.Count, len(user.Log))
	}

	// Duplicate usernames are permitted and get distinct ids
	dup, err := repo.CreateUser(context.TODO(), "alice")
	if err != nil {
		t.Fatalf("CreateUser() duplicate error = %v", err)
	}
	if dup.ID == user.ID {
		t.Errorf("CreateUser() reused id %q", dup.ID)
	}
}

func TestSQLiteUserRepository_GetUserByID(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)

	created, err := repo.CreateUser(context.TODO(), "bob")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, ok, err := repo.GetUserByID(context.TODO(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if !ok {
		t.Fatal("GetUserByID() ok = false, want true")
	}
	if got.Username != "bob" || got.Count != 0 {
		t.Errorf("GetUserByID() = %+v, want username bob, count 0", got)
	}

	_, ok, err = repo.GetUserByID(context.TODO(), "nonexistent")
	if ok {
		t.Error("GetUserByID() ok = true for missing user")
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrUserNotFound", err)
	}
}

func TestSQLiteUserRepository_SaveUser(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)

	user, err := repo.CreateUser(context.TODO(), "carol")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	date := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
	user.Log = append(user.Log, domain.Exercise{
		Duration:    30,
		Date:        date,
		Description: "run",
	})
	user.Count++

	if err := repo.SaveUser(context.TODO(), user); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}

	got, _, err := repo.GetUserByID(context.TODO(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}

	if got.Count != 1 || len(got.Log) != 1 {
		t.Fatalf("round trip count = %d, log length = %d, want 1 and 1", got.Count, len(got.Log))
	}

	entry := got.Log[0]
	if entry.Duration != 30 || entry.Description != "run" {
		t.Errorf("round trip entry = %+v", entry)
	}
	if !entry.Date.Equal(date) {
		t.Errorf("round trip date = %v, want %v", entry.Date, date)
	}

	// Saving a user that was never created must not invent a row
	err = repo.SaveUser(context.TODO(), &domain.User{ID: "ghost", Username: "ghost"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("SaveUser() error = %v, want ErrUserNotFound", err)
	}
}

func TestSQLiteUserRepository_ListUsers(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)

	usernames := []string{"first", "second", "third"}
	for _, name := range usernames {
		if _, err := repo.CreateUser(context.TODO(), name); err != nil {
			t.Fatalf("CreateUser(%q) error = %v", name, err)
		}
	}

	users, err := repo.ListUsers(context.TODO())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}

	if len(users) != len(usernames) {
		t.Fatalf("ListUsers() returned %d users, want %d", len(users), len(usernames))
	}

	for i, user := range users {
		if user.Username != usernames[i] {
			t.Errorf("ListUsers()[%d].Username = %q, want %q", i, user.Username, usernames[i])
		}
	}

	// Listing twice with no writes in between is idempotent
	again, err := repo.ListUsers(context.TODO())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}

	for i := range users {
		if users[i].ID != again[i].ID {
			t.Errorf("ListUsers() order changed at %d: %q vs %q", i, users[i].ID, again[i].ID)
		}
	}
}
