package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/travel-log/backend/internal/repo"
	"github.com/pkordes/travel-log/backend/internal/storage"
)

// Reconciler sweeps the file store for orphans: stored images no photo row
// references. Orphans can appear when an ingest writes its files but the
// database transaction then fails and the best-effort cleanup also fails
// (file writes and the relational commit are not a single transaction).
type Reconciler struct {
	log   *slog.Logger
	repo  repo.LogRepo
	files storage.FileStore
}

// NewReconciler constructs a Reconciler with explicit dependencies.
func NewReconciler(log *slog.Logger, r repo.LogRepo, files storage.FileStore) *Reconciler {
	return &Reconciler{log: log, repo: r, files: files}
}

// Sweep deletes every stored file that no photo row references and returns
// the number of files removed.
//
// Sweep races with in-flight ingests: a file written after the row snapshot
// but before the file listing looks like an orphan even though its row is
// about to commit. It is therefore meant to run at startup or from an
// operator action, not concurrently with traffic.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	referenced, err := r.repo.ListPhotoURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.Reconciler.Sweep: %w", err)
	}

	stored, err := r.files.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.Reconciler.Sweep: %w", err)
	}

	refSet := make(map[string]struct{}, len(referenced))
	for _, url := range referenced {
		refSet[url] = struct{}{}
	}

	removed := 0
	for _, url := range stored {
		if _, ok := refSet[url]; ok {
			continue
		}
		if err := r.files.Remove(ctx, url); err != nil {
			r.log.WarnContext(ctx, "failed to remove orphan file", "url", url, "error", err)
			continue
		}
		r.log.InfoContext(ctx, "removed orphan file", "url", url)
		removed++
	}
	return removed, nil
}
