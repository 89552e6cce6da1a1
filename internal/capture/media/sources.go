package media

import (
	"context"
	"fmt"
	"os"
)

// FileSource is a gallery-style Source over explicit file paths.
// The capture CLI uses it: "picking from the gallery" is naming files.
// Every path must exist and be a regular file at pick time.
type FileSource []string

// Pick validates the configured paths and returns them in order.
func (s FileSource) Pick(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, p := range s {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("photo %q: %w", p, err)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("photo %q is not a regular file", p)
		}
	}
	return []string(s), nil
}
