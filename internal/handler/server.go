// Package handler implements the HTTP handlers for the travel log API.
// Handlers decode the wire format, call the services, and map domain errors
// to status codes. Methods are split into domain-specific files (log.go,
// health.go) but all share the same Server struct so they can access its
// dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-log/backend/internal/domain"
	"github.com/pkordes/travel-log/backend/internal/service"
)

// Ingester defines the ingest operation the handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or storage.
type Ingester interface {
	Ingest(ctx context.Context, sub service.Submission) (domain.TravelLog, error)
}

// Lifecycler defines the read/update/delete operations the handler depends on.
type Lifecycler interface {
	Get(ctx context.Context, id int64) (domain.TravelLog, error)
	List(ctx context.Context) ([]domain.TravelLog, error)
	Update(ctx context.Context, id int64, title, description string) (domain.TravelLog, error)
	Delete(ctx context.Context, id int64) error
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	ingest    Ingester
	lifecycle Lifecycler
	uploadDir string
}

// NewServer constructs the Server with all its dependencies.
// uploadDir is the directory GET /uploads/* serves files from; the server is
// the sole authority mapping a stored photo URL to a physical file.
func NewServer(ingest Ingester, lifecycle Lifecycler, uploadDir string) *Server {
	return &Server{ingest: ingest, lifecycle: lifecycle, uploadDir: uploadDir}
}

// Routes registers every endpoint on the given router.
// maxBody wraps the ingest route only: it is the one surface that accepts
// request bodies of meaningful size.
func (s *Server) Routes(r chi.Router, maxBody func(http.Handler) http.Handler) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/api/logs", func(r chi.Router) {
		r.With(maxBody).Post("/", s.CreateLog)
		r.Get("/", s.ListLogs)
		r.Get("/{id}", s.GetLog)
		r.Put("/{id}", s.UpdateLog)
		r.Delete("/{id}", s.DeleteLog)
	})

	// Stored photo URLs are relative paths under /uploads; strip the prefix
	// and serve straight from the storage root.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)
}
