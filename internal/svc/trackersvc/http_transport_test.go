package trackersvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mkrupp/exercise-tracker/internal/domain"
	"github.com/mkrupp/exercise-tracker/internal/svc/trackersvc"
)

func setupTransportTest(t *testing.T) (*trackersvc.HTTPTransport, *mockUserRepository) {
	t.Helper()

	mockRepo := newMockUserRepo()

	transport := trackersvc.NewHTTPTransport(
		trackersvc.NewUserService(mockRepo),
		trackersvc.NewExerciseService(mockRepo),
		trackersvc.NewLogService(mockRepo),
		trackersvc.HTTPTransportConfig{},
	)

	return transport, mockRepo
}

func doForm(t *testing.T, transport http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	transport.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var body T
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}

	return body
}

func TestHTTPTransport_Index(t *testing.T) {
	t.Parallel()

	transport, _ := setupTransportTest(t)

	rec := httptest.NewRecorder()
	transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", rec.Code, http.StatusOK)
	}

	if !strings.Contains(rec.Body.String(), "Exercise Tracker") {
		t.Error("GET / does not serve the landing page")
	}
}

func TestHTTPTransport_CreateUser(t *testing.T) {
	t.Parallel()

	transport, _ := setupTransportTest(t)

	rec := doForm(t, transport, http.MethodPost, "/api/users", url.Values{"username": {"alice"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/users status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	body := decodeBody[domain.UserResponse](t, rec)
	if body.Username != "alice" || body.ID == "" {
		t.Errorf("POST /api/users body = %+v", body)
	}

	// JSON bodies are accepted as well
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"bob"}`))
	req.Header.Set("Content-Type", "application/json")

	rec = httptest.NewRecorder()
	transport.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/users (json) status = %d: %s", rec.Code, rec.Body.String())
	}

	if body := decodeBody[domain.UserResponse](t, rec); body.Username != "bob" {
		t.Errorf("POST /api/users (json) body = %+v", body)
	}
}

func TestHTTPTransport_CreateUser_MissingUsername(t *testing.T) {
	t.Parallel()

	transport, _ := setupTransportTest(t)

	rec := doForm(t, transport, http.MethodPost, "/api/users", url.Values{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	if body := decodeBody[domain.ErrorResponse](t, rec); body.Error == "" {
		t.Errorf("error body = %+v, want non-empty error", body)
	}
}

func TestHTTPTransport_ListUsers(t *testing.T) {
	t.Parallel()

	transport, mockRepo := setupTransportTest(t)

	for _, name := range []string{"alice", "bob"} {
		if _, err := mockRepo.CreateUser(context.TODO(), name); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/users status = %d", rec.Code)
	}

	body := decodeBody[[]domain.UserResponse](t, rec)
	if len(body) != 2 || body[0].Username != "alice" || body[1].Username != "bob" {
		t.Errorf("GET /api/users body = %+v", body)
	}
}

//nolint:funlen
func TestHTTPTransport_AddExercise(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		form       url.Values
		missing    bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid append",
			form:       url.Values{"duration": {"30"}, "date": {"2023-06-15"}, "description": {"run"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-numeric duration",
			form:       url.Values{"duration": {"abc"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Duration should be an integer",
		},
		{
			name:       "unknown user",
			form:       url.Values{"duration": {"30"}},
			missing:    true,
			wantStatus: http.StatusNotFound,
			wantError:  "User not found",
		},
		{
			name:       "unparseable date",
			form:       url.Values{"duration": {"30"}, "date": {"junk"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport, mockRepo := setupTransportTest(t)

			seeded, err := mockRepo.CreateUser(context.TODO(), "alice")
			if err != nil {
				t.Fatalf("failed to seed user: %v", err)
			}

			userID := seeded.ID
			if tt.missing {
				userID = "nonexistent"
			}

			rec := doForm(t, transport, http.MethodPost, "/api/users/"+userID+"/exercises", tt.form)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantError != "" {
				if body := decodeBody[domain.ErrorResponse](t, rec); body.Error != tt.wantError {
					t.Errorf("error = %q, want %q", body.Error, tt.wantError)
				}

				return
			}

			body := decodeBody[domain.ExerciseResponse](t, rec)
			if body.ID != seeded.ID || body.Duration != 30 || body.Date != "Thu Jun 15 2023" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestHTTPTransport_GetLog(t *testing.T) {
	t.Parallel()

	transport, mockRepo := setupTransportTest(t)

	seeded, err := mockRepo.CreateUser(context.TODO(), "alice")
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	for _, date := range []string{"2023-01-01", "2023-06-15", "2023-12-31"} {
		rec := doForm(t, transport, http.MethodPost, "/api/users/"+seeded.ID+"/exercises",
			url.Values{"duration": {"30"}, "date": {date}, "description": {"run"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("failed to seed exercise: %s", rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/users/"+seeded.ID+"/logs?from=2023-02-01&limit=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET logs status = %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[domain.LogResponse](t, rec)
	if body.Count != 3 {
		t.Errorf("count = %d, want 3", body.Count)
	}
	if len(body.Log) != 1 || body.Log[0].Date != "Thu Jun 15 2023" {
		t.Errorf("log = %+v", body.Log)
	}
}

func TestHTTPTransport_GetLog_UserNotFound(t *testing.T) {
	t.Parallel()

	transport, _ := setupTransportTest(t)

	rec := httptest.NewRecorder()
	transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/nonexistent/logs", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	if body := decodeBody[domain.ErrorResponse](t, rec); body.Error != "User not found" {
		t.Errorf("error = %q, want %q", body.Error, "User not found")
	}
}
