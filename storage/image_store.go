package storage

import (
	"context"
	"io"
)

// ImageStore is the file-storage collaborator for product and category
// images. Services only call it when an image field changes.
type ImageStore interface {
	// Store saves the object under key and returns the key.
	Store(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}
