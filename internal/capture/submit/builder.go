// Package submit composes a capture session's text, coordinate, and assets
// into one multipart payload and delivers it to the ingest endpoint.
//
// Validation is fully client-side first: every missing piece has its own
// user-actionable message, surfaced before a single byte crosses the network.
package submit

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/travel-log/backend/internal/capture/media"
	"github.com/pkordes/travel-log/backend/internal/domain"
)

// Validation failures, one per missing piece. All wrap domain.ErrValidation.
// The messages are what the user sees, so they say what to do, not what broke.
var (
	ErrTitleRequired       = fmt.Errorf("%w: add a title before saving", domain.ErrValidation)
	ErrDescriptionRequired = fmt.Errorf("%w: tell a little about the trip before saving", domain.ErrValidation)
	ErrPhotosRequired      = fmt.Errorf("%w: attach at least one photo", domain.ErrValidation)
	ErrLocationRequired    = fmt.Errorf("%w: capture a location first", domain.ErrValidation)
)

// Draft is the in-progress submission: everything the user has entered or
// captured so far. Coordinate is a pointer because "not yet acquired" must be
// distinguishable from a real (0, 0) fix.
type Draft struct {
	Title       string
	Description string
	Coordinate  *domain.Coordinate
	Assets      []media.Asset
	// VisitedAt defaults to the build time when zero.
	VisitedAt time.Time
}

// Validate checks the draft against the client-side submission policy:
// title, description, at least one photo, and a coordinate are all required.
// The first missing piece is returned; fix it and validate again.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrDescriptionRequired
	}
	if len(d.Assets) == 0 {
		return ErrPhotosRequired
	}
	if d.Coordinate == nil {
		return ErrLocationRequired
	}
	return nil
}

// Payload is a ready-to-send multipart body.
type Payload struct {
	ContentType string
	Body        *bytes.Buffer
}

// AssetOpener resolves an asset URI to its bytes. On desktop the URI is a
// file path; OpenFileAsset is the implementation the CLI uses.
type AssetOpener func(uri string) (io.ReadCloser, error)

// OpenFileAsset opens an asset whose URI is a local file path.
func OpenFileAsset(uri string) (io.ReadCloser, error) {
	return os.Open(uri)
}

// Builder turns validated drafts into multipart payloads.
type Builder struct {
	open AssetOpener
	now  func() time.Time
}

// NewBuilder constructs a Builder. open resolves asset URIs; pass
// OpenFileAsset for local files.
func NewBuilder(open AssetOpener) *Builder {
	return &Builder{open: open, now: time.Now}
}

// Build validates the draft and assembles the multipart payload.
//
// Field names are the fixed wire contract: title, description, latitude,
// longitude, visitedAt, and one repeated "photos" part per asset named
// photo_<i>.jpg. Coordinates go as decimal strings, visitedAt as RFC 3339.
func (b *Builder) Build(d Draft) (*Payload, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	visitedAt := d.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = b.now()
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       d.Title,
		"description": d.Description,
		"latitude":    strconv.FormatFloat(d.Coordinate.Latitude, 'f', -1, 64),
		"longitude":   strconv.FormatFloat(d.Coordinate.Longitude, 'f', -1, 64),
		"visitedAt":   visitedAt.UTC().Format(time.RFC3339),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("submit.Builder.Build: field %s: %w", name, err)
		}
	}

	for i, asset := range d.Assets {
		part, err := w.CreateFormFile("photos", fmt.Sprintf("photo_%d.jpg", i))
		if err != nil {
			return nil, fmt.Errorf("submit.Builder.Build: photo part: %w", err)
		}

		src, err := b.open(asset.URI)
		if err != nil {
			return nil, fmt.Errorf("submit.Builder.Build: open %q: %w", asset.URI, err)
		}
		_, err = io.Copy(part, src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("submit.Builder.Build: read %q: %w", asset.URI, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("submit.Builder.Build: %w", err)
	}

	return &Payload{ContentType: w.FormDataContentType(), Body: &buf}, nil
}
