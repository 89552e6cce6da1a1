package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/pkordes/travel-log/backend/internal/domain"
	"github.com/pkordes/travel-log/backend/internal/repo"
	"github.com/pkordes/travel-log/backend/internal/storage"
)

// LifecycleService handles everything after ingest: reads, text-only updates,
// and deletion with backing-file cleanup.
type LifecycleService struct {
	log   *slog.Logger
	repo  repo.LogRepo
	files storage.FileStore
}

// NewLifecycleService constructs a LifecycleService with explicit dependencies.
func NewLifecycleService(log *slog.Logger, r repo.LogRepo, files storage.FileStore) *LifecycleService {
	return &LifecycleService{log: log, repo: r, files: files}
}

// Get returns a single record with its photos.
// Returns domain.ErrNotFound if the id does not resolve.
func (s *LifecycleService) Get(ctx context.Context, id int64) (domain.TravelLog, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("service.LifecycleService.Get: %w", err)
	}
	return result, nil
}

// List returns all records newest first, photos included.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LifecycleService) List(ctx context.Context) ([]domain.TravelLog, error) {
	logs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LifecycleService.List: %w", err)
	}
	if logs == nil {
		return []domain.TravelLog{}, nil
	}
	return logs, nil
}

// Update replaces title and description of an existing record. Coordinates,
// visit timestamp, and the photo set are immutable through this path.
// Returns domain.ErrValidation for an empty title, domain.ErrNotFound if the
// id does not resolve. Concurrent updates race with last-writer-wins.
func (s *LifecycleService) Update(ctx context.Context, id int64, title, description string) (domain.TravelLog, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.TravelLog{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	result, err := s.repo.UpdateText(ctx, id, title, description)
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("service.LifecycleService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a record and its backing image files.
//
// Files are removed before the database row on purpose: a crash in between
// leaves rows pointing at missing files, which is detectable and repairable,
// rather than files no row points at, which nothing would ever find again.
// A file that is already missing is logged and tolerated; so is any other
// removal failure; cleanup is best-effort, the row delete is the operation.
// Returns domain.ErrNotFound if the id does not resolve; in that case nothing
// is touched.
func (s *LifecycleService) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.LifecycleService.Delete: %w", err)
	}

	for _, photo := range record.Photos {
		if err := s.files.Remove(ctx, photo.URL); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.log.WarnContext(ctx, "photo file already missing", "id", id, "url", photo.URL)
				continue
			}
			s.log.ErrorContext(ctx, "failed to remove photo file", "id", id, "url", photo.URL, "error", err)
		}
	}

	// Photo rows cascade with the parent in this same statement.
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.LifecycleService.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "log deleted", "id", id, "photos", len(record.Photos))
	return nil
}
