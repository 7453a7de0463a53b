package domain

// UserResponse is the public projection of a user, excluding the
// exercise count and log.
type UserResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// ExerciseResponse echoes a freshly appended exercise together with its
// owning user's identity. The date is a human-readable calendar string.
type ExerciseResponse struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Duration    int64  `json:"duration"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// LogEntry is a single formatted exercise inside a log query response.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int64  `json:"duration"`
	Date        string `json:"date"`
}

// LogResponse is the result of a log query. Count is the total number
// of exercises ever recorded, not the filtered length.
type LogResponse struct {
	ID       string     `json:"_id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
