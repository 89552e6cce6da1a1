// Package storage implements the durable file store for uploaded images.
// Image bytes live on the local filesystem under a single base directory;
// the relational store only ever holds relative URLs pointing into it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkordes/travel-log/backend/internal/domain"
)

// FileStore defines the operations the ingest and lifecycle services need
// from durable storage. The services depend on this interface so tests can
// substitute an in-memory double.
type FileStore interface {
	// Save writes the bytes from r to a freshly generated filename derived
	// from originalName and returns the public relative URL for the new file
	// (e.g. "/uploads/1712345678901234567_beach.jpg").
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)

	// Remove deletes the file a relative URL points at.
	// Returns fs.ErrNotExist (wrapped) when the file is already gone, so
	// callers can decide whether a missing file is tolerable.
	Remove(ctx context.Context, url string) error

	// List returns the relative URLs of every file currently in the store.
	List(ctx context.Context) ([]string, error)

	// Dir returns the base directory files live under, for static serving.
	Dir() string
}

// LocalStore is a FileStore backed by a directory on the local filesystem.
type LocalStore struct {
	baseDir  string
	basePath string // public URL prefix, e.g. "/uploads"
	now      func() time.Time
}

// NewLocalStore creates the base directory if needed and returns a store
// serving files under basePath. basePath must start with "/".
func NewLocalStore(baseDir, basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: %w", err)
	}
	return &LocalStore{baseDir: baseDir, basePath: basePath, now: time.Now}, nil
}

// Save streams r into a new file named <unixnano>_<sanitized originalName>.
// The nanosecond timestamp component is what keeps concurrent submissions
// from colliding; no cross-request lock is taken.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("storage.LocalStore.Save: %w", err)
	}

	name := fmt.Sprintf("%d_%s", s.now().UnixNano(), sanitizeName(originalName))
	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("storage.LocalStore.Save: %w: %w", domain.ErrStorage, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		// A half-written file is worse than no file.
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("storage.LocalStore.Save: copy: %w: %w", domain.ErrStorage, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("storage.LocalStore.Save: close: %w: %w", domain.ErrStorage, err)
	}

	return s.basePath + "/" + name, nil
}

// Remove deletes the file the URL points at.
func (s *LocalStore) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("storage.LocalStore.Remove: %w", err)
	}

	name, err := s.fileName(url)
	if err != nil {
		return fmt.Errorf("storage.LocalStore.Remove: %w", err)
	}

	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage.LocalStore.Remove: %w", err)
		}
		return fmt.Errorf("storage.LocalStore.Remove: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

// List returns a URL for every regular file under the base directory.
func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("storage.LocalStore.List: %w", err)
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("storage.LocalStore.List: %w: %w", domain.ErrStorage, err)
	}

	var urls []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			urls = append(urls, s.basePath+"/"+e.Name())
		}
	}
	return urls, nil
}

// Dir returns the base directory.
func (s *LocalStore) Dir() string {
	return s.baseDir
}

// fileName extracts and validates the bare file name from a relative URL.
// Anything that would escape the base directory is rejected.
func (s *LocalStore) fileName(url string) (string, error) {
	name := strings.TrimPrefix(url, s.basePath+"/")
	if name == url {
		return "", fmt.Errorf("url %q not under base path %q", url, s.basePath)
	}
	if name == "" || name != path.Base(name) {
		return "", fmt.Errorf("invalid file name in url %q", url)
	}
	return name, nil
}

// sanitizeName reduces an uploaded filename to a safe base name: path
// components are stripped and anything outside [a-zA-Z0-9._-] becomes "_".
func sanitizeName(name string) string {
	base := path.Base(filepath.ToSlash(name))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
