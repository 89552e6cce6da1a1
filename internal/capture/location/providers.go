package location

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/pkordes/travel-log/backend/internal/domain"
)

// StaticChecker is a PermissionChecker with a fixed answer. The capture CLI
// uses it: consent is given (or withheld) up front via a flag rather than an
// interactive OS prompt.
type StaticChecker bool

// RequestForeground returns the configured answer.
func (c StaticChecker) RequestForeground(context.Context) (bool, error) {
	return bool(c), nil
}

// FixedProvider reports one configured position as the current fix and has no
// cache of its own. The capture CLI uses it with coordinates supplied on the
// command line standing in for a device sensor; tests use it as a stub.
type FixedProvider struct {
	Position Position
	// Err, when set, makes Current fail. LastKnown never produces a fix.
	Err error
}

// LastKnown always reports no cached position.
func (p *FixedProvider) LastKnown(context.Context) (Position, bool, error) {
	return Position{}, false, nil
}

// Current returns the configured position or error.
func (p *FixedProvider) Current(_ context.Context, _ Accuracy) (Position, error) {
	if p.Err != nil {
		return Position{}, p.Err
	}
	return p.Position, nil
}

// CachedProvider wraps another Provider and persists the most recent fix to a
// JSON file, so LastKnown survives process restarts. It gives the capture CLI
// the same fast path a mobile device gets from its OS location cache.
type CachedProvider struct {
	inner Provider
	path  string
	// maxAge bounds how stale a cached fix may be before it is ignored.
	maxAge time.Duration
	now    func() time.Time
}

// NewCachedProvider wraps inner with a file cache at path.
// Cached fixes older than maxAge are ignored; zero means no age limit.
func NewCachedProvider(inner Provider, path string, maxAge time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, path: path, maxAge: maxAge, now: time.Now}
}

// cachedFix is the on-disk format.
type cachedFix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// LastKnown reads the cached fix, if present and fresh enough.
// A missing or corrupt cache file is "no fix", never an error.
func (p *CachedProvider) LastKnown(ctx context.Context) (Position, bool, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, false, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Position{}, false, nil
		}
		return Position{}, false, err
	}

	var c cachedFix
	if err := json.Unmarshal(data, &c); err != nil {
		return Position{}, false, nil
	}
	if p.maxAge > 0 && p.now().Sub(c.Timestamp) > p.maxAge {
		return Position{}, false, nil
	}

	return Position{
		Coordinate: domain.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude},
		Timestamp:  c.Timestamp,
	}, true, nil
}

// Current measures via the wrapped provider and caches the result.
// A cache write failure is ignored: the fix itself is what matters.
func (p *CachedProvider) Current(ctx context.Context, acc Accuracy) (Position, error) {
	pos, err := p.inner.Current(ctx, acc)
	if err != nil {
		return Position{}, err
	}

	data, err := json.Marshal(cachedFix{
		Latitude:  pos.Coordinate.Latitude,
		Longitude: pos.Coordinate.Longitude,
		Timestamp: pos.Timestamp,
	})
	if err == nil {
		_ = os.WriteFile(p.path, data, 0o644)
	}
	return pos, nil
}
