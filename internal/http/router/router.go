// Package router assembles the HTTP routing tree.
//
// Route table:
//
//	GET    /api/v1/students        → list students (paged, sorted)
//	POST   /api/v1/students        → create a new student
//	GET    /api/v1/students/{id}   → get one student by ID
//	PUT    /api/v1/students/{id}   → replace a student
//	DELETE /api/v1/students/{id}   → delete a student
//	GET    /metrics                → Prometheus scrape endpoint
//
// Unknown routes and unsupported methods get the same JSON error envelope
// as every other failure.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/students-api/internal/apperr"
	"github.com/aanand-mishra/students-api/internal/http/handlers/student"
	"github.com/aanand-mishra/students-api/internal/i18n"
	"github.com/aanand-mishra/students-api/internal/metrics"
	"github.com/aanand-mishra/students-api/internal/utils/response"
)

// StudentsPath is the collection route prefix.
const StudentsPath = "/api/v1/students"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Students student.Service
	Catalog  *i18n.Catalog
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// New returns the application handler.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer(deps.Catalog))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, deps.Catalog.FromRequest(r), apperr.RouteNotFound(r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, deps.Catalog.FromRequest(r), apperr.MethodNotAllowed(r.Method))
	})

	r.Route(StudentsPath, func(r chi.Router) {
		r.Get("/", student.GetList(deps.Students, deps.Catalog))
		r.Post("/", student.New(deps.Students, deps.Catalog))
		r.Get("/{id}", student.GetByID(deps.Students, deps.Catalog))
		r.Put("/{id}", student.Update(deps.Students, deps.Catalog))
		r.Delete("/{id}", student.Delete(deps.Students, deps.Catalog))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// recoverer turns a handler panic into a 500 error envelope and logs the
// stack. http.ErrAbortHandler is re-raised for net/http to handle.
func recoverer(catalog *i18n.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				slog.Error("handler panicked",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())))

				response.WriteError(w, r, catalog.FromRequest(r), apperr.Internal(fmt.Errorf("panic: %v", rvr)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request through the default slog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("request completed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)))
	})
}
