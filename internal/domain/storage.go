package domain

import (
	"context"
	"io"
)

// ImageStore persists uploaded event images and returns where they were put.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (*StoredFile, error)
	// Delete removes a file previously returned by Save.
	Delete(ctx context.Context, file *StoredFile) error
}
