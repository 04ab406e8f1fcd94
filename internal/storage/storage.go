// Package storage persists generated assets (QR badge images, ground
// layout uploads) and serves them back by public URL.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Store is the asset storage backend. The local implementation writes under
// an uploads directory; a cloud backend would satisfy the same interface.
type Store interface {
	// Save writes the content under key and returns the public URL.
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	// Open reads a stored asset.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists reports whether the key is present and its size.
	Exists(ctx context.Context, key string) (bool, int64, error)
	// Delete removes a stored asset. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for a key without touching the backend.
	URL(key string) string
}

// New constructs the backend named by typ. Only "local" is implemented;
// anything else is a deployment configuration mistake.
func New(typ, uploadDir, baseURL string) (Store, error) {
	switch typ {
	case "", "local":
		return NewLocalStore(uploadDir, baseURL)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}
