package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"eventsapi/internal/domain"
)

// S3Config holds configuration for the S3 image store.
type S3Config struct {
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Config holds configuration for creating an image store.
type Config struct {
	Provider  string
	UploadDir string
	S3        S3Config
}

// NewImageStore creates an image store from config. Provider "s3" uploads to a
// bucket; "local" or unknown writes under UploadDir.
func NewImageStore(config Config, logger *slog.Logger) (domain.ImageStore, error) {
	switch config.Provider {
	case "s3":
		return newS3Store(config.S3)
	case "local", "":
		return NewLocalStore(config.UploadDir)
	default:
		logger.Warn("unknown image store provider, using local", "provider", config.Provider)
		return NewLocalStore(config.UploadDir)
	}
}

// objectName returns a unique name for an upload, keeping a sanitized
// extension from the client filename.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return fmt.Sprintf("%s%s", uuid.NewString(), ext)
}
