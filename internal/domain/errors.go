package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in the database.
// Handlers should map this to HTTP 404. Never carries side effects.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation (e.g. missing title,
// non-finite coordinate). Validation runs before any row or file is created.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStorage is returned when writing or deleting an image file fails.
// Unlike ErrValidation and ErrNotFound it is retryable: the caller may
// re-submit the whole operation. Handlers should map this to HTTP 500 with
// a distinct error code so clients can tell it apart from a non-retryable
// failure.
var ErrStorage = errors.New("storage failure")

// ErrPermissionDenied is returned by the capture pipeline when the user
// refuses a device capability (location access). No fallback tier runs
// after a denial.
var ErrPermissionDenied = errors.New("permission denied")
