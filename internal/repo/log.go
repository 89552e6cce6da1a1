// Package repo contains all database access logic for the travel log API.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/travel-log/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// compile-time checks: both production and test handles satisfy db.
var (
	_ db = (*pgxpool.Pool)(nil)
	_ db = (pgx.Tx)(nil)
)

// LogRepo defines the persistence operations for TravelLogs and their Photos.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the services to be unit-tested with a mock.
type LogRepo interface {
	// Create inserts a new travel log together with all its photo rows as one
	// transaction: either every row commits or none do. The returned record
	// has DB-generated id, created_at, and photo ids populated.
	// photoURLs maps positionally to the photos of the new record.
	Create(ctx context.Context, log domain.TravelLog, photoURLs []string) (domain.TravelLog, error)

	// GetByID retrieves a single travel log with its photos.
	// Returns domain.ErrNotFound if no log with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.TravelLog, error)

	// List returns all travel logs with their photos, newest first
	// (created_at descending, id descending as tie-break).
	List(ctx context.Context) ([]domain.TravelLog, error)

	// UpdateText overwrites title and description of an existing log and
	// returns the updated record with photos. Coordinates, visited_at, and
	// the photo set are untouched by design.
	// Returns domain.ErrNotFound if no log with that ID exists.
	UpdateText(ctx context.Context, id int64, title, description string) (domain.TravelLog, error)

	// Delete removes a log by ID. Photo rows go with it via the
	// ON DELETE CASCADE constraint, so parent and children disappear in the
	// same statement. Returns domain.ErrNotFound if the log does not exist.
	Delete(ctx context.Context, id int64) error

	// ListPhotoURLs returns the URLs of every photo row in the database.
	// Used by the orphan-file reconciliation sweep.
	ListPhotoURLs(ctx context.Context) ([]string, error)
}

// pgLogRepo is the Postgres implementation of LogRepo.
type pgLogRepo struct {
	db db
}

// NewLogRepo constructs a LogRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewLogRepo(db db) LogRepo {
	return &pgLogRepo{db: db}
}

// Create inserts the log row and all photo rows inside one transaction.
func (r *pgLogRepo) Create(ctx context.Context, log domain.TravelLog, photoURLs []string) (domain.TravelLog, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.Create: begin: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback(ctx)

	const insertLog = `
		INSERT INTO travel_logs (title, description, latitude, longitude, visited_at)
		VALUES (@title, @description, @latitude, @longitude, @visited_at)
		RETURNING id, title, description, latitude, longitude, visited_at, created_at`

	args := pgx.NamedArgs{
		"title":       log.Title,
		"description": log.Description,
		"latitude":    log.Latitude,
		"longitude":   log.Longitude,
		"visited_at":  log.VisitedAt,
	}

	created, err := scanLog(tx.QueryRow(ctx, insertLog, args))
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.Create: insert log: %w", err)
	}

	const insertPhoto = `
		INSERT INTO photos (log_id, url)
		VALUES (@log_id, @url)
		RETURNING id, log_id, url`

	created.Photos = make([]domain.Photo, 0, len(photoURLs))
	for _, url := range photoURLs {
		row := tx.QueryRow(ctx, insertPhoto, pgx.NamedArgs{"log_id": created.ID, "url": url})

		var p domain.Photo
		if err := row.Scan(&p.ID, &p.LogID, &p.URL); err != nil {
			return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.Create: insert photo: %w", err)
		}
		created.Photos = append(created.Photos, p)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.Create: commit: %w", err)
	}
	return created, nil
}

// GetByID retrieves a log by primary key, photos included.
func (r *pgLogRepo) GetByID(ctx context.Context, id int64) (domain.TravelLog, error) {
	const q = `
		SELECT id, title, description, latitude, longitude, visited_at, created_at
		FROM travel_logs
		WHERE id = @id`

	log, err := scanLog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.GetByID: %w", err)
	}

	log.Photos, err = r.photosByLogID(ctx, id)
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.GetByID: %w", err)
	}
	return log, nil
}

// List returns all logs newest first, photos attached.
func (r *pgLogRepo) List(ctx context.Context) ([]domain.TravelLog, error) {
	const q = `
		SELECT id, title, description, latitude, longitude, visited_at, created_at
		FROM travel_logs
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LogRepo.List: %w", err)
	}
	defer rows.Close()

	var logs []domain.TravelLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LogRepo.List: scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LogRepo.List: rows: %w", err)
	}

	// One photo query per log keeps the SQL simple; log counts are small
	// (single-user app) so N+1 is acceptable here.
	for i := range logs {
		logs[i].Photos, err = r.photosByLogID(ctx, logs[i].ID)
		if err != nil {
			return nil, fmt.Errorf("repo.LogRepo.List: %w", err)
		}
	}
	return logs, nil
}

// UpdateText overwrites title and description only.
func (r *pgLogRepo) UpdateText(ctx context.Context, id int64, title, description string) (domain.TravelLog, error) {
	const q = `
		UPDATE travel_logs
		SET title       = @title,
		    description = @description
		WHERE id = @id
		RETURNING id, title, description, latitude, longitude, visited_at, created_at`

	args := pgx.NamedArgs{
		"id":          id,
		"title":       title,
		"description": description,
	}

	log, err := scanLog(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.UpdateText: %w", err)
	}

	log.Photos, err = r.photosByLogID(ctx, id)
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("repo.LogRepo.UpdateText: %w", err)
	}
	return log, nil
}

// Delete removes a log by primary key; photo rows cascade.
func (r *pgLogRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM travel_logs WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.LogRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LogRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListPhotoURLs returns every photo URL currently referenced by a row.
func (r *pgLogRepo) ListPhotoURLs(ctx context.Context) ([]string, error) {
	const q = `SELECT url FROM photos`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LogRepo.ListPhotoURLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("repo.LogRepo.ListPhotoURLs: scan: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LogRepo.ListPhotoURLs: rows: %w", err)
	}
	return urls, nil
}

// photosByLogID returns the photos of one log ordered by id (insertion order).
func (r *pgLogRepo) photosByLogID(ctx context.Context, logID int64) ([]domain.Photo, error) {
	const q = `
		SELECT id, log_id, url
		FROM photos
		WHERE log_id = @log_id
		ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"log_id": logID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []domain.Photo{}
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.LogID, &p.URL); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanLog to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanLog maps a single database row into a domain.TravelLog (photos not
// populated; callers attach them separately).
func scanLog(s scanner) (domain.TravelLog, error) {
	var l domain.TravelLog

	err := s.Scan(&l.ID, &l.Title, &l.Description, &l.Latitude, &l.Longitude, &l.VisitedAt, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelLog{}, domain.ErrNotFound
		}
		return domain.TravelLog{}, err
	}
	return l, nil
}
