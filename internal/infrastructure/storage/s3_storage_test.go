package storage

import (
	"testing"

	"github.com/aihaccp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ImageStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ImageStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ImageStorage(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3ImageStorage(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3ImageStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		s, err := NewS3ImageStorage(&config.StorageConfig{
			Bucket:    "receptions",
			AccessKey: "k",
			SecretKey: "s",
			Endpoint:  "localhost:9000",
			PathStyle: true,
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "receptions", s.Bucket())
	})
}

func TestNew(t *testing.T) {
	t.Run("local by default", func(t *testing.T) {
		s, err := New(config.StorageConfig{LocalPath: t.TempDir()}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &LocalImageStorage{}, s)
	})

	t.Run("s3", func(t *testing.T) {
		s, err := New(config.StorageConfig{Type: "S3", Bucket: "b", AccessKey: "k", SecretKey: "s"}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &S3ImageStorage{}, s)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := New(config.StorageConfig{Type: "ftp"}, zaptest.NewLogger(t))
		assert.Error(t, err)
	})
}
