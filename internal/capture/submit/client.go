package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/travel-log/backend/internal/domain"
)

// Client delivers built payloads to the ingest endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
	builder *Builder
}

// NewClient constructs a Client for the API at baseURL (e.g.
// "http://localhost:8080"). The HTTP timeout is generous because one
// submission can carry many photos.
func NewClient(baseURL string, builder *Builder) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 2 * time.Minute},
		builder: builder,
	}
}

// serverError mirrors the API's error body.
type serverError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Submit validates, builds, and posts the draft as one atomic submission.
//
// Validation failures return before any network I/O. Server-side rejections
// come back typed: a validation_error maps to domain.ErrValidation, a
// storage_error to domain.ErrStorage (retryable by re-submitting the whole
// draft; re-submission creates a new record, it does not deduplicate).
func (c *Client) Submit(ctx context.Context, d Draft) (domain.TravelLog, error) {
	payload, err := c.builder.Build(d)
	if err != nil {
		return domain.TravelLog{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logs", payload.Body)
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("submit.Client.Submit: %w", err)
	}
	req.Header.Set("Content-Type", payload.ContentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.TravelLog{}, fmt.Errorf("submit.Client.Submit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var se serverError
		if err := json.NewDecoder(resp.Body).Decode(&se); err != nil || se.Error.Message == "" {
			return domain.TravelLog{}, fmt.Errorf("submit.Client.Submit: unexpected status %d", resp.StatusCode)
		}
		switch se.Error.Code {
		case "validation_error":
			return domain.TravelLog{}, fmt.Errorf("submit.Client.Submit: %w: %s", domain.ErrValidation, se.Error.Message)
		case "storage_error":
			return domain.TravelLog{}, fmt.Errorf("submit.Client.Submit: %w: %s", domain.ErrStorage, se.Error.Message)
		default:
			return domain.TravelLog{}, fmt.Errorf("submit.Client.Submit: server error: %s", se.Error.Message)
		}
	}

	var created domain.TravelLog
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return domain.TravelLog{}, fmt.Errorf("submit.Client.Submit: decode response: %w", err)
	}
	return created, nil
}
