// Package service contains the business logic for the travel log API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// storage calls. No SQL and no HTTP live here.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/travel-log/backend/internal/domain"
	"github.com/pkordes/travel-log/backend/internal/repo"
	"github.com/pkordes/travel-log/backend/internal/storage"
)

// ImagePart is one image attached to a submission. Name is the client-side
// filename (used to derive the stored name); Data streams the image bytes.
type ImagePart struct {
	Name string
	Data io.Reader
}

// Submission is a fully parsed ingest request. The handler is responsible for
// decoding the multipart wire format into this struct; the service only sees
// typed values.
type Submission struct {
	Title       string
	Description string
	Coordinate  domain.Coordinate
	// VisitedAt defaults to the ingest time when zero.
	VisitedAt time.Time
	Images    []ImagePart
}

// IngestService accepts one submission and turns it into a durable record:
// image bytes into the file store, metadata rows into Postgres.
type IngestService struct {
	log   *slog.Logger
	repo  repo.LogRepo
	files storage.FileStore
	now   func() time.Time
}

// NewIngestService constructs an IngestService with explicit dependencies.
// There is no shared global handle: callers construct the pool and store at
// startup and pass them in.
func NewIngestService(log *slog.Logger, r repo.LogRepo, files storage.FileStore) *IngestService {
	return &IngestService{log: log, repo: r, files: files, now: time.Now}
}

// Ingest validates the submission, writes every image to durable storage,
// then creates the log row and all photo rows in one database transaction.
//
// Validation failures return domain.ErrValidation before any file or row is
// created. A failed file write returns domain.ErrStorage; files written
// earlier in the same submission are removed best-effort. If the database
// transaction fails after the files are written, the files are likewise
// removed best-effort; anything that survives is an orphan picked up by
// Reconciler.Sweep.
func (s *IngestService) Ingest(ctx context.Context, sub Submission) (domain.TravelLog, error) {
	if err := validateSubmission(sub); err != nil {
		return domain.TravelLog{}, err
	}

	visitedAt := sub.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = s.now()
	}

	urls := make([]string, 0, len(sub.Images))
	for _, img := range sub.Images {
		url, err := s.files.Save(ctx, img.Name, img.Data)
		if err != nil {
			s.removeAll(ctx, urls)
			return domain.TravelLog{}, fmt.Errorf("service.IngestService.Ingest: %w", err)
		}
		urls = append(urls, url)
	}

	log := domain.TravelLog{
		Title:       strings.TrimSpace(sub.Title),
		Description: sub.Description,
		Latitude:    sub.Coordinate.Latitude,
		Longitude:   sub.Coordinate.Longitude,
		VisitedAt:   visitedAt,
	}

	created, err := s.repo.Create(ctx, log, urls)
	if err != nil {
		// The file writes and the relational commit are not one transaction;
		// deleting the files here closes the window in the common case.
		s.removeAll(ctx, urls)
		return domain.TravelLog{}, fmt.Errorf("service.IngestService.Ingest: %w", err)
	}

	s.log.InfoContext(ctx, "log ingested",
		"id", created.ID,
		"photos", len(created.Photos),
	)
	return created, nil
}

// removeAll deletes the given stored files, logging failures instead of
// returning them: the caller is already on an error path.
func (s *IngestService) removeAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.files.Remove(ctx, url); err != nil {
			s.log.WarnContext(ctx, "orphan file left behind", "url", url, "error", err)
		}
	}
}

// validateSubmission enforces the server-side required fields: a non-empty
// title and a finite, in-range coordinate. Description and images are
// optional at this layer (client policy may require them earlier).
func validateSubmission(sub Submission) error {
	if strings.TrimSpace(sub.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !sub.Coordinate.Valid() {
		return fmt.Errorf("%w: latitude and longitude must be finite coordinates", domain.ErrValidation)
	}
	return nil
}
