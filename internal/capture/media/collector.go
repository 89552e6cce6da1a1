// Package media gathers the local image assets a user attaches to a capture
// session. Assets are local-only handles: they mean nothing outside the
// session unless consumed by the submission builder.
package media

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MaxAssets is the upper bound on attached images per session, matching the
// gallery picker's selection limit.
const MaxAssets = 100

// Asset is one locally referenced image chosen by the user. URI is a local
// handle (a file path on desktop, a content URI on device); it is not durable
// and carries no meaning after the session ends.
type Asset struct {
	ID  uuid.UUID
	URI string
}

// Source produces local image URIs. A camera source returns one freshly
// captured image per call; a gallery source may return many. A Source may
// block indefinitely while the user decides, so it takes a context.
type Source interface {
	Pick(ctx context.Context) ([]string, error)
}

// Collector accumulates the ordered asset list for one capture session.
// It is user-paced and single-flow: no concurrency, no sharing across
// sessions. Zero assets is valid here; whether an empty set may be
// submitted is the submission builder's policy, not the collector's.
type Collector struct {
	assets []Asset
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddFrom asks src for images and appends them in selection order.
// Returns an error when the pick fails or would exceed MaxAssets; in the
// latter case nothing is added.
func (c *Collector) AddFrom(ctx context.Context, src Source) ([]Asset, error) {
	uris, err := src.Pick(ctx)
	if err != nil {
		return nil, fmt.Errorf("media.Collector.AddFrom: %w", err)
	}

	if len(c.assets)+len(uris) > MaxAssets {
		return nil, fmt.Errorf("media.Collector.AddFrom: cannot attach more than %d photos", MaxAssets)
	}

	added := make([]Asset, 0, len(uris))
	for _, uri := range uris {
		added = append(added, Asset{ID: uuid.New(), URI: uri})
	}
	c.assets = append(c.assets, added...)
	return added, nil
}

// Assets returns the collected assets in selection order.
// The returned slice is a copy; mutating it does not affect the collector.
func (c *Collector) Assets() []Asset {
	out := make([]Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

// Len returns the number of collected assets.
func (c *Collector) Len() int {
	return len(c.assets)
}

// Clear resets the collector for a fresh session.
func (c *Collector) Clear() {
	c.assets = nil
}
