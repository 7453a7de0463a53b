package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mkrupp/exercise-tracker/internal/domain"
	"github.com/mkrupp/exercise-tracker/internal/infra/logging"
	"github.com/mkrupp/exercise-tracker/internal/util/encoding"
	"github.com/mkrupp/exercise-tracker/internal/util/uuid"
)

// SQLiteUserRepositoryConfig holds configuration for the SQLite user repository.
type SQLiteUserRepositoryConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/trackersvc.db"`
}

// SQLiteUserRepository implements Repository using SQLite as the storage
// backend. Each user row carries its exercise log as an embedded JSON
// document, so SaveUser is a single-row write.
type SQLiteUserRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteUserRepository)(nil)

// SQLiteUserRepositoryFactory creates a factory function that returns a new SQLiteUserRepository.
// The factory function implements the RepositoryFactory type.
func SQLiteUserRepositoryFactory(cfg SQLiteUserRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteUserRepository(cfg)
	}
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository with the given configuration.
// It initializes the database connection and creates the schema if needed.
// Returns an error if database connection or initialization fails.
func NewSQLiteUserRepository(cfg SQLiteUserRepositoryConfig) (*SQLiteUserRepository, error) {
	log := logging.GetLogger("repo.user.sqlite_user_repository").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteUserRepository{
		db:        db,
		log:       log,
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeDB(db *sql.DB) (err error) {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT    PRIMARY KEY,
			username   TEXT    NOT NULL,
			count      INTEGER NOT NULL DEFAULT 0,
			log        TEXT    NOT NULL DEFAULT '[]',
			created_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// CreateUser implements Repository.CreateUser using SQLite.
// The identifier is a crockford-encoded UUIDv7 assigned here.
func (r *SQLiteUserRepository) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	id, err := uuid.New(uuid.UUIDv7)
	if err != nil {
		return nil, fmt.Errorf("new user id: %w", err)
	}

	user := &domain.User{
		ID:        encoding.EncodeCrockfordB32LC(id.Bytes()),
		Username:  username,
		Count:     0,
		Log:       []domain.Exercise{},
		CreatedAt: time.Now().Unix(),
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, count, log, created_at) VALUES (?, ?, 0, '[]', ?)",
		user.ID,
		user.Username,
		user.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// GetUserByID implements Repository.GetUserByID using SQLite.
func (r *SQLiteUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, bool, error) {
	var (
		user    domain.User
		logJSON []byte
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, count, log, created_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.Count, &logJSON, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(domain.ErrUserNotFound, err)
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	if err := json.Unmarshal(logJSON, &user.Log); err != nil {
		return nil, false, fmt.Errorf("unmarshal log: %w", err)
	}

	return &user, true, nil
}

// SaveUser implements Repository.SaveUser using SQLite. The whole user
// document, count and log included, is persisted in one UPDATE.
func (r *SQLiteUserRepository) SaveUser(ctx context.Context, user *domain.User) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	logJSON, err := json.Marshal(user.Log)
	if err != nil {
		return fmt.Errorf("marshal log: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET username = ?, count = ?, log = ? WHERE id = ?",
		user.Username,
		user.Count,
		logJSON,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update user: %w", domain.ErrUserNotFound)
	}

	return nil
}

// ListUsers implements Repository.ListUsers using SQLite.
// Users are returned in insertion order; their logs are not loaded.
func (r *SQLiteUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, count, created_at FROM users ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User

	for rows.Next() {
		var user domain.User

		if err := rows.Scan(&user.ID, &user.Username, &user.Count, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Close implements Repository.Close by closing the database connection.
func (r *SQLiteUserRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
