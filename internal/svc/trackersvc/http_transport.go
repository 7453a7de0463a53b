package trackersvc

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mkrupp/exercise-tracker/internal/domain"
	"github.com/mkrupp/exercise-tracker/internal/infra/logging"
	http_ "github.com/mkrupp/exercise-tracker/internal/infra/transport/http"
)

//go:embed static/index.html
var indexHTML []byte

// ErrNoUsername is returned when the username is missing from the request.
var ErrNoUsername = errors.New("no username")

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig
}

// HTTPTransport handles HTTP requests for the exercise tracker.
// It provides endpoints for creating and listing users, appending
// exercises and querying exercise logs.
type HTTPTransport struct {
	userSvc     *UserService
	exerciseSvc *ExerciseService
	logSvc      *LogService
	log         logging.Logger
	cfg         HTTPTransportConfig
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance with the given configuration.
func NewHTTPTransport(
	userSvc *UserService,
	exerciseSvc *ExerciseService,
	logSvc *LogService,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	return &HTTPTransport{
		userSvc:     userSvc,
		exerciseSvc: exerciseSvc,
		logSvc:      logSvc,
		log:         logging.GetLogger("svc.trackersvc.http_transport"),
		cfg:         cfg,
	}
}

// ServeHTTP implements http.Handler and sets up routes for the tracker endpoints:
// - GET /: Static landing page
// - POST /api/users: Create a user
// - GET /api/users: List all users
// - POST /api/users/{id}/exercises: Append an exercise to a user's log
// - GET /api/users/{id}/logs: Query a user's exercise log.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ht.HandleIndex)
	mux.HandleFunc("POST /api/users", ht.HandleCreateUser)
	mux.HandleFunc("GET /api/users", ht.HandleListUsers)
	mux.HandleFunc("POST /api/users/{id}/exercises", ht.HandleAddExercise)
	mux.HandleFunc("GET /api/users/{id}/logs", ht.HandleGetLog)
	mux.ServeHTTP(w, r)
}

// HandleIndex serves the embedded landing page.
func (ht *HTTPTransport) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

// HandleCreateUser processes user creation requests.
// Expects a username field in a form-encoded or JSON body.
func (ht *HTTPTransport) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleCreateUser(w, r)
}

func (ht *HTTPTransport) handleCreateUser(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "create user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user created")
		}
	}(r.Context())

	body, err := requestValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")

		return fmt.Errorf("read body: %w", err)
	}

	username := body["username"]
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")

		return ErrNoUsername
	}

	response, err := ht.userSvc.CreateUser(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")

		return fmt.Errorf("create user: %w", err)
	}

	return writeJSON(w, response)
}

// HandleListUsers returns all stored users as id/username projections.
func (ht *HTTPTransport) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleListUsers(w, r)
}

func (ht *HTTPTransport) handleListUsers(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "list users failed", "error", err)
		} else {
			log.DebugContext(ctx, "users listed")
		}
	}(r.Context())

	users, err := ht.userSvc.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")

		return fmt.Errorf("list users: %w", err)
	}

	return writeJSON(w, users)
}

// HandleAddExercise appends an exercise to the addressed user's log.
// Expects a duration field and optional date and description fields.
func (ht *HTTPTransport) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleAddExercise(w, r)
}

func (ht *HTTPTransport) handleAddExercise(w http.ResponseWriter, r *http.Request) (err error) {
	userID := r.PathValue("id")

	log := ht.log.With(
		logging.Group("http", "method", r.Method, "url", r.URL.String()),
		logging.Group("user", "id", userID),
	)

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "add exercise failed", "error", err)
		} else {
			log.DebugContext(ctx, "exercise added")
		}
	}(r.Context())

	body, err := requestValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")

		return fmt.Errorf("read body: %w", err)
	}

	response, err := ht.exerciseSvc.AddExercise(
		r.Context(),
		userID,
		body["duration"],
		body["date"],
		body["description"],
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrInvalidDuration):
			writeError(w, http.StatusBadRequest, "Duration should be an integer")
		case errors.Is(err, domain.ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "Invalid date")
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}

		return fmt.Errorf("add exercise: %w", err)
	}

	return writeJSON(w, response)
}

// HandleGetLog returns the addressed user's exercise log, honoring the
// from, to and limit query parameters.
func (ht *HTTPTransport) HandleGetLog(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGetLog(w, r)
}

func (ht *HTTPTransport) handleGetLog(w http.ResponseWriter, r *http.Request) (err error) {
	userID := r.PathValue("id")

	log := ht.log.With(
		logging.Group("http", "method", r.Method, "url", r.URL.String()),
		logging.Group("user", "id", userID),
	)

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "get log failed", "error", err)
		} else {
			log.DebugContext(ctx, "log retrieved")
		}
	}(r.Context())

	query := r.URL.Query()

	response, err := ht.logSvc.GetLog(
		r.Context(),
		userID,
		query.Get("from"),
		query.Get("to"),
		query.Get("limit"),
	)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}

		return fmt.Errorf("get log: %w", err)
	}

	return writeJSON(w, response)
}

// requestValues extracts named body fields as strings from either a
// form-encoded or a JSON request body. JSON numbers are rendered back
// to their string form so field validation stays uniform.
func requestValues(r *http.Request) (map[string]string, error) {
	values := make(map[string]string)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any

		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}

		for key, value := range body {
			if value == nil {
				continue
			}

			values[key] = fmt.Sprintf("%v", value)
		}

		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}

	return values, nil
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errchkjson
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Error: message})
}
