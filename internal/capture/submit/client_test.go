package submit_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-log/backend/internal/capture/submit"
	"github.com/pkordes/travel-log/backend/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*submit.Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	builder := submit.NewBuilder(stringOpener(map[string]string{
		"mem://one": "bytes-one",
		"mem://two": "bytes-two",
	}))
	return submit.NewClient(srv.URL, builder), srv
}

func TestClient_Submit_Created(t *testing.T) {
	var gotPath, gotTitle string
	var gotPhotos int
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(8<<20))
		gotTitle = r.FormValue("title")
		gotPhotos = len(r.MultipartForm.File["photos"])
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.TravelLog{ID: 9, Title: r.FormValue("title")})
	})
	defer srv.Close()

	created, err := client.Submit(context.Background(), validDraft())

	require.NoError(t, err)
	assert.Equal(t, "/api/logs", gotPath)
	assert.Equal(t, "Kawah Ijen", gotTitle)
	assert.Equal(t, 2, gotPhotos)
	assert.EqualValues(t, 9, created.ID)
}

func TestClient_Submit_InvalidDraft_NoRequest(t *testing.T) {
	requests := 0
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		requests++
	})
	defer srv.Close()

	d := validDraft()
	d.Assets = nil

	_, err := client.Submit(context.Background(), d)

	assert.ErrorIs(t, err, submit.ErrPhotosRequired)
	assert.Zero(t, requests, "an invalid draft must not reach the network")
}

func TestClient_Submit_ServerValidationError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"validation_error","message":"title is required"}}`))
	})
	defer srv.Close()

	_, err := client.Submit(context.Background(), validDraft())

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "title is required")
}

func TestClient_Submit_ServerStorageError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"storage_error","message":"disk full"}}`))
	})
	defer srv.Close()

	_, err := client.Submit(context.Background(), validDraft())

	assert.ErrorIs(t, err, domain.ErrStorage, "storage errors stay typed so the user can retry")
}

func TestClient_Submit_UnexpectedBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	})
	defer srv.Close()

	_, err := client.Submit(context.Background(), validDraft())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Submit_TrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	builder := submit.NewBuilder(stringOpener(map[string]string{
		"mem://one": "x",
		"mem://two": "y",
	}))
	client := submit.NewClient(srv.URL+"/", builder)

	_, err := client.Submit(context.Background(), validDraft())

	require.NoError(t, err)
	assert.Equal(t, "/api/logs", gotPath)
	assert.False(t, strings.Contains(gotPath, "//"))
}
