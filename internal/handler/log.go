package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-log/backend/internal/domain"
	"github.com/pkordes/travel-log/backend/internal/service"
)

// multipartMemory is how much of a parsed multipart body is held in memory
// before spilling to temp files. Image parts larger than this stream from disk.
const multipartMemory = 8 << 20

// CreateLog handles POST /api/logs.
//
// The body is a multipart form with fixed field names: title, description,
// latitude, longitude (decimal strings), visitedAt (RFC 3339, optional), and
// zero or more repeated "photos" file parts. One submission is one atomic
// record: either the log and all its photos are created, or nothing is.
func (s *Server) CreateLog(w http.ResponseWriter, r *http.Request) {
	sub, cleanup, err := parseSubmission(r)
	defer cleanup()
	if err != nil {
		// A body over the size limit surfaces here as a read error.
		writeRequestError(w, err.Error())
		return
	}

	created, err := s.ingest.Ingest(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeValidation(w, err)
		case errors.Is(err, domain.ErrStorage):
			writeStorage(w, err)
		default:
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListLogs handles GET /api/logs. Records come back newest first, each with
// its photo URLs.
func (s *Server) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.lifecycle.List(r.Context())
	if err != nil {
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// GetLog handles GET /api/logs/{id}.
func (s *Server) GetLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeNotFound(w, "log not found")
		return
	}

	log, err := s.lifecycle.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "log not found")
			return
		}
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// updateLogRequest is the JSON body for PUT /api/logs/{id}.
// Only the text fields are updatable; coordinates and photos are immutable
// after creation.
type updateLogRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateLog handles PUT /api/logs/{id}.
func (s *Server) UpdateLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeNotFound(w, "log not found")
		return
	}

	var body updateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "request body must be JSON with title and description")
		return
	}

	updated, err := s.lifecycle.Update(r.Context(), id, body.Title, body.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeNotFound(w, "log not found")
		case errors.Is(err, domain.ErrValidation):
			writeValidation(w, err)
		default:
			writeInternal(w)
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteLog handles DELETE /api/logs/{id}.
func (s *Server) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeNotFound(w, "log not found")
		return
	}

	if err := s.lifecycle.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "log not found")
			return
		}
		writeInternal(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- request decoding -------------------------------------------------------

// pathID parses the {id} chi URL parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseSubmission decodes the multipart wire format into a service.Submission.
// The returned cleanup func releases the temp files the multipart parser may
// have spilled large parts into; call it after the service is done reading.
//
// All decoding failures are client errors: nothing has been persisted yet.
func parseSubmission(r *http.Request) (service.Submission, func(), error) {
	noop := func() {}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return service.Submission{}, noop, fmt.Errorf("invalid multipart form: %w", err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	sub := service.Submission{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	lat, err := parseCoord(r.FormValue("latitude"), "latitude")
	if err != nil {
		return service.Submission{}, cleanup, err
	}
	lng, err := parseCoord(r.FormValue("longitude"), "longitude")
	if err != nil {
		return service.Submission{}, cleanup, err
	}
	sub.Coordinate = domain.Coordinate{Latitude: lat, Longitude: lng}

	if v := r.FormValue("visitedAt"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return service.Submission{}, cleanup, fmt.Errorf("visitedAt must be an ISO-8601 timestamp")
		}
		sub.VisitedAt = ts
	}

	for _, fh := range r.MultipartForm.File["photos"] {
		f, err := fh.Open()
		if err != nil {
			return service.Submission{}, cleanup, fmt.Errorf("unreadable photo part %q", fh.Filename)
		}
		// The part is closed by cleanup via RemoveAll; readers stay valid
		// until then.
		sub.Images = append(sub.Images, service.ImagePart{Name: fh.Filename, Data: f})
	}

	return sub, cleanup, nil
}

// parseCoord parses a required decimal-string coordinate field.
// Presence is checked here; finiteness and range are the service's job.
func parseCoord(v, field string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a decimal number", field)
	}
	return f, nil
}
