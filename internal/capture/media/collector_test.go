package media_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/backend/internal/capture/media"
)

// stubSource returns fixed URIs or a fixed error.
type stubSource struct {
	uris []string
	err  error
}

func (s stubSource) Pick(context.Context) ([]string, error) {
	return s.uris, s.err
}

var _ media.Source = stubSource{}

func TestCollector_AddFrom_PreservesSelectionOrder(t *testing.T) {
	c := media.NewCollector()

	added, err := c.AddFrom(context.Background(), stubSource{uris: []string{"a.jpg", "b.jpg"}})
	require.NoError(t, err)
	require.Len(t, added, 2)

	_, err = c.AddFrom(context.Background(), stubSource{uris: []string{"c.jpg"}})
	require.NoError(t, err)

	var uris []string
	for _, a := range c.Assets() {
		uris = append(uris, a.URI)
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", a.ID.String())
	}
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, uris)
	assert.Equal(t, 3, c.Len())
}

func TestCollector_AddFrom_PickError(t *testing.T) {
	c := media.NewCollector()

	_, err := c.AddFrom(context.Background(), stubSource{err: errors.New("picker dismissed")})

	require.Error(t, err)
	assert.Zero(t, c.Len())
}

func TestCollector_AddFrom_CapIsAtomic(t *testing.T) {
	c := media.NewCollector()

	full := make([]string, media.MaxAssets)
	for i := range full {
		full[i] = fmt.Sprintf("img-%03d.jpg", i)
	}
	_, err := c.AddFrom(context.Background(), stubSource{uris: full})
	require.NoError(t, err, "exactly MaxAssets must be accepted")

	_, err = c.AddFrom(context.Background(), stubSource{uris: []string{"one-too-many.jpg"}})

	require.Error(t, err)
	assert.Equal(t, media.MaxAssets, c.Len(), "a rejected pick must add nothing")
}

func TestCollector_AssetsIsACopy(t *testing.T) {
	c := media.NewCollector()
	_, err := c.AddFrom(context.Background(), stubSource{uris: []string{"a.jpg"}})
	require.NoError(t, err)

	got := c.Assets()
	got[0].URI = "tampered.jpg"

	assert.Equal(t, "a.jpg", c.Assets()[0].URI)
}

func TestCollector_Clear(t *testing.T) {
	c := media.NewCollector()
	_, err := c.AddFrom(context.Background(), stubSource{uris: []string{"a.jpg"}})
	require.NoError(t, err)

	c.Clear()

	assert.Zero(t, c.Len())
	assert.Empty(t, c.Assets())
}

func TestFileSource_Pick(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("y"), 0o644))

	uris, err := media.FileSource{a, b}.Pick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, uris)
}

func TestFileSource_Pick_MissingFile(t *testing.T) {
	_, err := media.FileSource{filepath.Join(t.TempDir(), "nope.jpg")}.Pick(context.Background())

	assert.Error(t, err)
}

func TestFileSource_Pick_Directory(t *testing.T) {
	_, err := media.FileSource{t.TempDir()}.Pick(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")
}
