package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dom/account-store/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageKey(t *testing.T) {
	key, err := storage.ImageKey("heroes", "image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "heroes/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	other, err := storage.ImageKey("heroes", "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = storage.ImageKey("heroes", "application/pdf")
	assert.ErrorIs(t, err, storage.ErrUnsupportedMimeType)
}

func TestDisabledUploader(t *testing.T) {
	_, err := storage.DisabledUploader{}.Upload(context.Background(), "k", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrUploadsDisabled)
}

func TestNewS3Uploader(t *testing.T) {
	u, err := storage.NewS3Uploader(context.Background(), storage.S3Options{
		Endpoint:        "http://localhost:9000",
		Region:          "auto",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "images",
	})
	require.NoError(t, err)
	assert.NotNil(t, u)
}
