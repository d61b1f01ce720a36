package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"eventsapi/internal/domain"
)

type localStore struct {
	dir string
}

// NewLocalStore returns an ImageStore writing files under dir, creating it if needed.
func NewLocalStore(dir string) (domain.ImageStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(ctx context.Context, filename string, r io.Reader) (*domain.StoredFile, error) {
	path := filepath.Join(s.dir, objectName(filename))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("close image file: %w", err)
	}
	return &domain.StoredFile{Path: filepath.ToSlash(path)}, nil
}

func (s *localStore) Delete(ctx context.Context, file *domain.StoredFile) error {
	if err := os.Remove(filepath.FromSlash(file.Path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
