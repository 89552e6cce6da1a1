package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/backend/internal/domain"
	"github.com/pkordes/travel-log/backend/internal/repo"
	"github.com/pkordes/travel-log/backend/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// LogRepo backed by that transaction. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newTestRepo(t *testing.T) repo.LogRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test, no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewLogRepo(tx)
}

// logFixture returns a domain.TravelLog with sensible defaults for use in
// tests. Callers can override individual fields after calling this function.
func logFixture() domain.TravelLog {
	return domain.TravelLog{
		Title:       "Hiking Gunung Gede",
		Description: "Tiring but the sunrise was worth it",
		Latitude:    -6.790554,
		Longitude:   106.980658,
		VisitedAt:   time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
	}
}

func TestLogRepo_Create(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	input := logFixture()
	urls := []string{"/uploads/1_summit.jpg", "/uploads/2_crater.jpg"}

	got, err := r.Create(ctx, input, urls)

	require.NoError(t, err)
	assert.NotZero(t, got.ID, "ID should be DB-generated")
	assert.Equal(t, input.Title, got.Title)
	assert.Equal(t, input.Description, got.Description)
	assert.Equal(t, input.Latitude, got.Latitude)
	assert.Equal(t, input.Longitude, got.Longitude)
	assert.True(t, got.VisitedAt.Equal(input.VisitedAt), "VisitedAt mismatch")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")

	require.Len(t, got.Photos, 2)
	for i, p := range got.Photos {
		assert.NotZero(t, p.ID)
		assert.Equal(t, got.ID, p.LogID)
		assert.Equal(t, urls[i], p.URL, "photos should keep submission order")
	}
}

func TestLogRepo_Create_NoPhotos(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	got, err := r.Create(ctx, logFixture(), nil)

	require.NoError(t, err)
	assert.Empty(t, got.Photos)
}

func TestLogRepo_Create_DuplicateURL_NothingPersists(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	// The second URL violates the unique constraint, so the whole create,
	// log row included, must roll back.
	_, err := r.Create(ctx, logFixture(), []string{"/uploads/a.jpg", "/uploads/a.jpg"})
	require.Error(t, err)

	logs, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs, "failed create must leave no rows behind")
}

func TestLogRepo_GetByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, logFixture(), []string{"/uploads/one.jpg"})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	require.Len(t, got.Photos, 1)
	assert.Equal(t, "/uploads/one.jpg", got.Photos[0].URL)
}

func TestLogRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, 999999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogRepo_List_NewestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.Create(ctx, logFixture(), nil)
	require.NoError(t, err)
	second := logFixture()
	second.Title = "Kulineran di Bandung"
	latest, err := r.Create(ctx, second, []string{"/uploads/batagor.jpg"})
	require.NoError(t, err)

	logs, err := r.List(ctx)

	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, latest.ID, logs[0].ID, "most recent record should come first")
	assert.Equal(t, first.ID, logs[1].ID)
	require.Len(t, logs[0].Photos, 1)
}

func TestLogRepo_UpdateText(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, logFixture(), []string{"/uploads/keep.jpg"})
	require.NoError(t, err)

	got, err := r.UpdateText(ctx, created.ID, "New title", "New description")

	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "New description", got.Description)

	// Everything else is immutable through this path.
	assert.Equal(t, created.Latitude, got.Latitude)
	assert.Equal(t, created.Longitude, got.Longitude)
	assert.True(t, got.VisitedAt.Equal(created.VisitedAt), "VisitedAt must not change")
	require.Len(t, got.Photos, 1)
	assert.Equal(t, created.Photos[0].URL, got.Photos[0].URL)
}

func TestLogRepo_UpdateText_NotFound(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.UpdateText(ctx, 999999999, "title", "desc")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogRepo_Delete_CascadesPhotos(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, logFixture(), []string{"/uploads/x.jpg", "/uploads/y.jpg"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	urls, err := r.ListPhotoURLs(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls, "photo rows must be removed with their parent")
}

func TestLogRepo_Delete_NotFound(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	err := r.Delete(ctx, 999999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogRepo_ListPhotoURLs(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, logFixture(), []string{"/uploads/a.jpg"})
	require.NoError(t, err)
	_, err = r.Create(ctx, logFixture(), []string{"/uploads/b.jpg"})
	require.NoError(t, err)

	urls, err := r.ListPhotoURLs(ctx)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, urls)
}
