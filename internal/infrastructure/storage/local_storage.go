package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aihaccp/backend/internal/domain/compliance"
	"github.com/aihaccp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DefaultLocalPath is used when no local directory is configured
const DefaultLocalPath = "uploads"

// ErrInvalidKey is returned for empty keys or keys escaping the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// LocalImageStorage writes images below a directory on local disk
type LocalImageStorage struct {
	root string
}

// NewLocalImageStorage creates the storage, creating root if needed
func NewLocalImageStorage(root string) (*LocalImageStorage, error) {
	if root == "" {
		root = DefaultLocalPath
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalImageStorage{root: root}, nil
}

// Save writes the image and returns its path on disk
func (s *LocalImageStorage) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return full, nil
}

// Root returns the storage directory
func (s *LocalImageStorage) Root() string {
	return s.root
}

// cleanKey normalizes a slash separated key and rejects traversal
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// New selects the image storage backend from configuration
func New(cfg config.StorageConfig, logger *zap.Logger) (compliance.ImageStorage, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "local":
		return NewLocalImageStorage(cfg.LocalPath)
	case "s3":
		return NewS3ImageStorage(&cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

var _ compliance.ImageStorage = (*LocalImageStorage)(nil)
