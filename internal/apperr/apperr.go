// Package apperr defines the failure categories the service layer returns
// and the pure mapping from category to HTTP status code.
//
// Handlers never inspect error strings: they ask KindOf(err) and let
// Status translate the kind. Messages are catalog keys (see internal/i18n)
// so the response layer can localise them.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aanand-mishra/students-api/internal/i18n"
)

// Kind is the machine-readable failure category.
type Kind int

const (
	// KindInternal is anything unexpected, usually a storage failure.
	KindInternal Kind = iota
	// KindValidation means one or more payload fields were rejected.
	KindValidation
	// KindNotFound means the addressed resource does not exist.
	KindNotFound
	// KindBadRequest covers invalid query input such as paging or sort.
	KindBadRequest
	// KindMethodNotAllowed means the route exists but not for this method.
	KindMethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Status maps a Kind to its HTTP status code.
func Status(k Kind) int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one rejected payload field.
// Tag is the validation rule that failed; it doubles as the catalog key
// suffix for the human message ("validation.<tag>").
type FieldError struct {
	Field         string
	Tag           string
	RejectedValue any
}

// Error is the single error type returned across the service boundary.
type Error struct {
	Kind   Kind
	Key    string
	Args   []string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Key, e.Err)
	case len(e.Fields) > 0:
		return fmt.Sprintf("%s: %s (%d field errors)", e.Kind, e.Key, len(e.Fields))
	case len(e.Args) > 0:
		return fmt.Sprintf("%s: %s %v", e.Kind, e.Key, e.Args)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Key)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation wraps a non-empty list of field errors.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Key: i18n.KeyValidationGeneric, Fields: fields}
}

// NotFound reports a missing resource, e.g. NotFound("Student", "id", "42").
func NotFound(resource, field, value string) *Error {
	return &Error{Kind: KindNotFound, Key: i18n.KeyNotFound, Args: []string{resource, field, value}}
}

// BadRequest reports invalid request input identified by a catalog key.
func BadRequest(key string, args ...string) *Error {
	return &Error{Kind: KindBadRequest, Key: key, Args: args}
}

// RouteNotFound reports a request no route matched.
func RouteNotFound(method, path string) *Error {
	return &Error{Kind: KindNotFound, Key: i18n.KeyRouteNotFound, Args: []string{method, path}}
}

// MethodNotAllowed reports a known route hit with an unsupported method.
func MethodNotAllowed(method string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Key: i18n.KeyMethodNotAllowed, Args: []string{method}}
}

// Internal wraps an unexpected failure. The cause is logged, never shown.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Key: i18n.KeyInternal, Err: err}
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As is shorthand for errors.As into *Error.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
