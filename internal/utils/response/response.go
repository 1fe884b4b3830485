// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Success responses may be any JSON shape (a student, a page…). Error
// responses always use the same flat envelope:
//
//	{
//	  "timestamp": "2024-06-15T10:30:00Z",
//	  "status": 404,
//	  "error": "Not Found",
//	  "message": "Student not found with id: 9999",
//	  "path": "/api/v1/students/9999",
//	  "errors": [ { "field": "email", "message": "...", "rejectedValue": "..." } ]
//	}
//
// "errors" is only present for validation failures.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"

	"github.com/aanand-mishra/students-api/internal/apperr"
	"github.com/aanand-mishra/students-api/internal/i18n"
)

// ErrorBody is the error envelope.
type ErrorBody struct {
	Timestamp time.Time    `json:"timestamp"`
	Status    int          `json:"status"`
	Error     string       `json:"error"`
	Message   string       `json:"message"`
	Path      string       `json:"path"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// FieldError is one rejected field inside ErrorBody.
type FieldError struct {
	Field         string `json:"field"`
	Message       string `json:"message"`
	RejectedValue any    `json:"rejectedValue"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NewErrorBody shapes err into the envelope. Errors that are not
// *apperr.Error are treated as internal failures and their text is not
// exposed. It does no I/O, so it is usable without a live server.
func NewErrorBody(err error, path string, trans ut.Translator, now time.Time) ErrorBody {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal(err)
	}

	status := apperr.Status(e.Kind)
	body := ErrorBody{
		Timestamp: now.UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   i18n.T(trans, e.Key, e.Args...),
		Path:      path,
	}

	for _, f := range e.Fields {
		body.Errors = append(body.Errors, FieldError{
			Field:         f.Field,
			Message:       i18n.T(trans, i18n.ValidationPrefix+f.Tag),
			RejectedValue: f.RejectedValue,
		})
	}

	return body
}

// WriteError writes err as an error envelope. Internal failures are
// logged with their cause at ERROR; client errors at DEBUG.
func WriteError(w http.ResponseWriter, r *http.Request, trans ut.Translator, err error) {
	body := NewErrorBody(err, r.URL.Path, trans, time.Now())

	if body.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", errString(err)))
	} else {
		slog.Debug("request rejected",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", body.Status),
			slog.String("error", errString(err)))
	}

	if werr := WriteJSON(w, body.Status, body); werr != nil {
		slog.Error("failed to encode error response", slog.String("error", werr.Error()))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
