package location_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/backend/internal/capture/location"
	"github.com/pkordes/travel-log/backend/internal/domain"
)

func cachePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "fix.json")
}

func TestCachedProvider_LastKnown_MissingFile(t *testing.T) {
	p := location.NewCachedProvider(&location.FixedProvider{}, cachePath(t), 0)

	_, ok, err := p.LastKnown(context.Background())

	require.NoError(t, err, "a missing cache file is not an error")
	assert.False(t, ok)
}

func TestCachedProvider_LastKnown_CorruptFile(t *testing.T) {
	path := cachePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	p := location.NewCachedProvider(&location.FixedProvider{}, path, 0)

	_, ok, err := p.LastKnown(context.Background())

	require.NoError(t, err, "a corrupt cache file is not an error")
	assert.False(t, ok)
}

func TestCachedProvider_RoundTrip(t *testing.T) {
	path := cachePath(t)
	inner := &location.FixedProvider{
		Position: location.Position{
			Coordinate: domain.Coordinate{Latitude: -8.650000, Longitude: 115.216667},
			Timestamp:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	p := location.NewCachedProvider(inner, path, 0)

	measured, err := p.Current(context.Background(), location.AccuracyBalanced)
	require.NoError(t, err)

	cached, ok, err := p.LastKnown(context.Background())
	require.NoError(t, err)
	require.True(t, ok, "Current must populate the cache")
	assert.Equal(t, measured.Coordinate, cached.Coordinate)
	assert.True(t, measured.Timestamp.Equal(cached.Timestamp))
}

func TestCachedProvider_LastKnown_StaleFixIgnored(t *testing.T) {
	path := cachePath(t)
	inner := &location.FixedProvider{
		Position: location.Position{
			Coordinate: domain.Coordinate{Latitude: 1, Longitude: 2},
			Timestamp:  time.Now().Add(-2 * time.Hour),
		},
	}
	p := location.NewCachedProvider(inner, path, time.Hour)

	_, err := p.Current(context.Background(), location.AccuracyBalanced)
	require.NoError(t, err)

	_, ok, err := p.LastKnown(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "a fix older than maxAge must be ignored")
}

func TestCachedProvider_Current_InnerFailureDoesNotCache(t *testing.T) {
	path := cachePath(t)
	p := location.NewCachedProvider(&location.FixedProvider{Err: assert.AnError}, path, 0)

	_, err := p.Current(context.Background(), location.AccuracyBalanced)

	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no cache file may be written for a failed fix")
}

func TestStaticChecker(t *testing.T) {
	granted, err := location.StaticChecker(true).RequestForeground(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = location.StaticChecker(false).RequestForeground(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
}
