// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject dependencies we use a factory function that accepts the
// dependencies (service, message catalog) and returns a function with the
// exact signature the router needs:
//
//	r.Post("/", student.New(svc, catalog))
//
// New(svc, catalog) is called ONCE at startup; the returned handler runs
// on EVERY incoming request.
//
// Handlers only translate HTTP to service calls and back. Every failure
// goes through response.WriteError, which picks the status from the
// error's kind.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/students-api/internal/apperr"
	"github.com/aanand-mishra/students-api/internal/i18n"
	"github.com/aanand-mishra/students-api/internal/paging"
	"github.com/aanand-mishra/students-api/internal/types"
	"github.com/aanand-mishra/students-api/internal/utils/response"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Service is what the handlers need from the business layer.
type Service interface {
	List(ctx context.Context, req paging.Request) (paging.Page[types.Student], error)
	Get(ctx context.Context, id int64) (types.Student, error)
	Create(ctx context.Context, in *types.Student) (types.Student, error)
	Update(ctx context.Context, id int64, in *types.Student) (types.Student, error)
	Delete(ctx context.Context, id int64) error
}

// listSanitizer accepts every Student property and defaults to id ascending.
var listSanitizer = paging.NewSanitizer(
	types.SortableProperties,
	paging.Order{Property: types.PropertyID, Direction: paging.Asc},
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/v1/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "firstName": " John ", "lastName": " Doe ",
//	  "email": "john.doe@example.com", "dateOfBirth": "2000-01-01" }
//
// Success response (201 Created) — the stored student with its new id
// and trimmed names.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service, catalog *i18n.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")
		trans := catalog.FromRequest(r)

		payload, err := decodeStudent(w, r)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}

		created, err := svc.Create(r.Context(), payload)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}

		slog.Info("student created", slog.Int64("id", created.IDValue()))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/v1/students/{id}
//
// Success response (200 OK) — the student.
//
// Error responses:
//
//	400 Bad Request  — id is not an integer
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc Service, catalog *i18n.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trans := catalog.FromRequest(r)

		id, err := pathID(r)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := svc.Get(r.Context(), id)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/v1/students?page=0&size=20&sort=lastName,asc
// Returns one page of students plus paging metadata:
//
//	{ "content": [ ... ],
//	  "page": { "number": 0, "size": 20, "totalElements": 3, "totalPages": 1,
//	            "first": true, "last": true, "numberOfElements": 3,
//	            "sort": [ { "property": "id", "direction": "ASC", ... } ] } }
//
// Error responses:
//
//	400 Bad Request  — size < 1 or not a number, or unknown sort property
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service, catalog *i18n.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trans := catalog.FromRequest(r)

		req, err := listSanitizer.FromQuery(r.URL.Query())
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}
		slog.Info("listing students",
			slog.Int("page", req.Page),
			slog.Int("size", req.Size))

		page, err := svc.List(r.Context(), req)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, page)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/v1/students/{id}
// Replaces ALL mutable fields of an existing student; partial updates are
// not supported.
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, or validation failure
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service, catalog *i18n.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trans := catalog.FromRequest(r)

		id, err := pathID(r)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		payload, err := decodeStudent(w, r)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/v1/students/{id}
// Permanently removes a student record.
//
// Success response: 204 No Content, empty body.
//
// Error responses:
//
//	400 Bad Request  — invalid id
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service, catalog *i18n.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trans := catalog.FromRequest(r)

		id, err := pathID(r)
		if err != nil {
			response.WriteError(w, r, trans, err)
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := svc.Delete(r.Context(), id); err != nil {
			response.WriteError(w, r, trans, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// pathID parses the {id} URL segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperr.BadRequest(i18n.KeyInvalidID)
	}
	return id, nil
}

// decodeStudent reads the JSON body. A literal null body yields a nil
// payload, which the validator reports as a missing "student".
func decodeStudent(w http.ResponseWriter, r *http.Request) (*types.Student, error) {
	var payload *types.Student

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload)
	if errors.Is(err, io.EOF) {
		return nil, apperr.BadRequest(i18n.KeyEmptyBody)
	}
	if err != nil {
		slog.Debug("malformed request body", slog.String("error", err.Error()))
		return nil, apperr.BadRequest(i18n.KeyMalformedBody)
	}

	return payload, nil
}
