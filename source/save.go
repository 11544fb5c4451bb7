package source

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
)

// Save writes data to location (a path or any afs URL) and returns the
// normalized URL.
func Save(ctx context.Context, location string, data []byte) (string, error) {
	norm, err := normalize(location)
	if err != nil {
		return "", err
	}
	if err := afs.New().Upload(ctx, norm, 0o644, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("source: upload %s: %w", norm, err)
	}
	return norm, nil
}
