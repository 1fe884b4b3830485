package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/http/handlers/student"
	"github.com/aanand-mishra/students-api/internal/i18n"
	"github.com/aanand-mishra/students-api/internal/metrics"
	"github.com/aanand-mishra/students-api/internal/paging"
	"github.com/aanand-mishra/students-api/internal/service"
	"github.com/aanand-mishra/students-api/internal/storage/memory"
	"github.com/aanand-mishra/students-api/internal/types"
	"github.com/aanand-mishra/students-api/internal/utils/response"
	"github.com/aanand-mishra/students-api/internal/validation"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	now := func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) }
	svc := service.NewStudentService(memory.New(), validation.New(validation.WithClock(now)))
	reg := prometheus.NewRegistry()

	return New(Deps{
		Students: svc,
		Catalog:  i18n.MustNew(),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	})
}

func do(h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func studentJSON(first, last, email, dob string) string {
	return fmt.Sprintf(`{"firstName":%q,"lastName":%q,"email":%q,"dateOfBirth":%q}`, first, last, email, dob)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createStudent(t *testing.T, h http.Handler, first, last, email string) types.Student {
	t.Helper()
	rec := do(h, http.MethodPost, StudentsPath, studentJSON(first, last, email, "2000-01-01"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.Student](t, rec)
}

func TestCreate_TrimsNames(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, StudentsPath, studentJSON(" John ", " Doe ", "john.doe@example.com", "2000-01-01"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decode[types.Student](t, rec)
	require.NotNil(t, got.ID)
	assert.Equal(t, "John", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
	assert.Equal(t, "john.doe@example.com", got.Email)
	assert.Equal(t, "2000-01-01", got.DateOfBirth.String())
}

func TestCreate_ValidationErrors(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, StudentsPath, studentJSON("", "Doe", "", "2000-01-01"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[response.ErrorBody](t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Equal(t, "Request validation failed.", body.Message)
	assert.Equal(t, StudentsPath, body.Path)

	require.Len(t, body.Errors, 2)
	assert.Equal(t, "firstName", body.Errors[0].Field)
	assert.Equal(t, "must not be blank", body.Errors[0].Message)
	assert.Equal(t, "email", body.Errors[1].Field)
	assert.Equal(t, "must not be blank", body.Errors[1].Message)
}

func TestCreate_FutureDateOfBirth(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, StudentsPath, studentJSON("John", "Doe", "john@example.com", "2030-01-01"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[response.ErrorBody](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "dateOfBirth", body.Errors[0].Field)
	assert.Equal(t, "must be a past date", body.Errors[0].Message)
	assert.Equal(t, "2030-01-01", body.Errors[0].RejectedValue)
}

func TestCreate_YearOneBirthDate(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, StudentsPath, studentJSON("Ada", "Old", "ada@example.com", "0001-01-01"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	raw := decode[map[string]any](t, rec)
	assert.Equal(t, "0001-01-01", raw["dateOfBirth"])
}

func TestCreate_BodyProblems(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "empty", body: "", message: "Request body is empty."},
		{name: "malformed", body: `{"firstName":`, message: "Malformed JSON request."},
		{name: "bad date", body: studentJSON("John", "Doe", "john@example.com", "01/01/2000"), message: "Malformed JSON request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, StudentsPath, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode[response.ErrorBody](t, rec).Message)
		})
	}
}

func TestGet_NotFoundHasNoFieldErrors(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, StudentsPath+"/9999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	raw := decode[map[string]any](t, rec)
	assert.Equal(t, "Student not found with id: 9999", raw["message"])
	assert.Equal(t, "Not Found", raw["error"])
	assert.Equal(t, StudentsPath+"/9999", raw["path"])
	assert.NotContains(t, raw, "errors")
}

func TestGet_InvalidID(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, StudentsPath+"/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id: must be an integer.", decode[response.ErrorBody](t, rec).Message)
}

func TestUpdate(t *testing.T) {
	h := newTestHandler(t)
	created := createStudent(t, h, "Phong", "Tran", "phong.tran@example.com")
	path := fmt.Sprintf("%s/%d", StudentsPath, *created.ID)

	rec := do(h, http.MethodPut, path, studentJSON(" Phong Updated ", "Tran", "phong.updated@example.com", "1998-03-10"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[types.Student](t, rec)
	assert.Equal(t, *created.ID, *updated.ID)
	assert.Equal(t, "Phong Updated", updated.FirstName)

	rec = do(h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[types.Student](t, rec)
	assert.Equal(t, "phong.updated@example.com", got.Email)
	assert.Equal(t, "1998-03-10", got.DateOfBirth.String())
}

func TestUpdate_UnknownID(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPut, StudentsPath+"/9999", studentJSON("John", "Doe", "john@example.com", "2000-01-01"))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found with id: 9999", decode[response.ErrorBody](t, rec).Message)
}

func TestDelete(t *testing.T) {
	h := newTestHandler(t)
	created := createStudent(t, h, "Linh", "Pham", "linh.pham@example.com")
	path := fmt.Sprintf("%s/%d", StudentsPath, *created.ID)

	rec := do(h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, path, "").Code)
}

func TestList_PageSortAndMetadata(t *testing.T) {
	h := newTestHandler(t)
	for i := 0; i < 12; i++ {
		suffix := string(rune('A' + i))
		createStudent(t, h, "Student"+suffix, "Last"+suffix, "student"+suffix+"@example.com")
	}

	rec := do(h, http.MethodGet, StudentsPath+"?page=1&size=5&sort=lastName,asc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[paging.Page[types.Student]](t, rec)
	require.Len(t, page.Content, 5)
	assert.Equal(t, "LastF", page.Content[0].LastName)
	assert.Equal(t, "LastJ", page.Content[4].LastName)
	assert.Equal(t, 1, page.Page.Number)
	assert.Equal(t, 5, page.Page.Size)
	assert.Equal(t, int64(12), page.Page.TotalElements)
	assert.Equal(t, 3, page.Page.TotalPages)
	assert.False(t, page.Page.First)
	assert.False(t, page.Page.Last)
	assert.Equal(t, 5, page.Page.NumberOfElements)
	require.Len(t, page.Page.Sort, 1)
	assert.Equal(t, "lastName", page.Page.Sort[0].Property)
	assert.Equal(t, paging.Asc, page.Page.Sort[0].Direction)

	rec = do(h, http.MethodGet, StudentsPath+"?page=0&size=5&sort=lastName,desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[paging.Page[types.Student]](t, rec)
	assert.Equal(t, "LastL", page.Content[0].LastName)
	assert.True(t, page.Page.First)
}

func TestList_Defaults(t *testing.T) {
	h := newTestHandler(t)
	createStudent(t, h, "Ann", "Zed", "ann@example.com")
	createStudent(t, h, "Bob", "Amos", "bob@example.com")

	rec := do(h, http.MethodGet, StudentsPath, "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[paging.Page[types.Student]](t, rec)
	assert.Equal(t, 0, page.Page.Number)
	assert.Equal(t, 20, page.Page.Size)
	assert.True(t, page.Page.First)
	assert.True(t, page.Page.Last)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Zed", page.Content[0].LastName, "default order is by id")
	require.Len(t, page.Page.Sort, 1)
	assert.Equal(t, types.PropertyID, page.Page.Sort[0].Property)
	assert.Equal(t, "NATIVE", page.Page.Sort[0].NullHandling)
}

func TestList_EmptyContentIsArray(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, StudentsPath, "")
	require.Equal(t, http.StatusOK, rec.Code)

	raw := decode[map[string]json.RawMessage](t, rec)
	assert.JSONEq(t, `[]`, string(raw["content"]))
}

func TestList_SizeIsClamped(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, StudentsPath+"?size=200", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, decode[paging.Page[types.Student]](t, rec).Page.Size)
}

func TestList_BadQuery(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		query   string
		message string
	}{
		{query: "size=-5", message: "Page size must be greater than zero."},
		{query: "size=0", message: "Page size must be greater than zero."},
		{query: "size=abc", message: "Invalid page size."},
		{query: "sort=unknown,asc", message: "Invalid sort property: unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(h, http.MethodGet, StudentsPath+"?"+tt.query, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode[response.ErrorBody](t, rec)
			assert.Equal(t, tt.message, body.Message)
			assert.Empty(t, body.Errors)
		})
	}
}

func TestLocalizedErrors(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, StudentsPath+"/9999", "", "Accept-Language", "vi-VN,vi;q=0.9,en;q=0.8")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Không tìm thấy Student với id: 9999", decode[response.ErrorBody](t, rec).Message)

	rec = do(h, http.MethodGet, StudentsPath+"/9999", "", "Accept-Language", "en;q=0.1, vi;q=0.9")
	assert.Equal(t, "Không tìm thấy Student với id: 9999", decode[response.ErrorBody](t, rec).Message)

	rec = do(h, http.MethodGet, StudentsPath+"/9999", "", "Accept-Language", "fr-FR")
	assert.Equal(t, "Student not found with id: 9999", decode[response.ErrorBody](t, rec).Message)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, "/api/v1/courses", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No handler found for GET /api/v1/courses", decode[response.ErrorBody](t, rec).Message)

	rec = do(h, http.MethodPatch, StudentsPath+"/1", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decode[response.ErrorBody](t, rec)
	assert.Equal(t, "Method Not Allowed", body.Error)
	assert.Equal(t, "Request method 'PATCH' is not supported.", body.Message)
}

// panickingStudents blows up on Get; every other method is unused.
type panickingStudents struct {
	student.Service
}

func (panickingStudents) Get(context.Context, int64) (types.Student, error) {
	panic("index out of range")
}

func TestPanicUsesErrorEnvelope(t *testing.T) {
	h := New(Deps{Students: panickingStudents{}, Catalog: i18n.MustNew()})

	rec := do(h, http.MethodGet, StudentsPath+"/1", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[response.ErrorBody](t, rec)
	assert.Equal(t, http.StatusInternalServerError, body.Status)
	assert.Equal(t, "Internal Server Error", body.Error)
	assert.Equal(t, "An unexpected error occurred.", body.Message)
	assert.Equal(t, StudentsPath+"/1", body.Path)
	assert.NotContains(t, rec.Body.String(), "index out of range")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	createStudent(t, h, "Ann", "Lee", "ann@example.com")

	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `students_api_http_requests_total{method="POST"`)
	assert.Contains(t, rec.Body.String(), "students_api_http_request_duration_seconds")
}
