package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenticv-server/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Storage.MaxFileSize = 10 * 1024 * 1024
	return cfg
}

func TestMockStore_UploadListDelete(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	result, err := store.Upload(ctx, UploadInput{
		Filename: "resume.pdf",
		MimeType: "application/pdf",
		Size:     2048,
		Body:     strings.NewReader("fake pdf bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "https://cv-uploads.mock.local/"))
	assert.NotEmpty(t, result.Path)
	assert.Equal(t, "resume.pdf", result.Filename)

	files, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, result.Path, files[0].Path)
	assert.Equal(t, int64(2048), files[0].SizeBytes)

	require.NoError(t, store.Delete(ctx, result.Path))

	files, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMockStore_DeleteMissingKeyIsNotAnError(t *testing.T) {
	store := NewMockStore()

	assert.NoError(t, store.Delete(context.Background(), "no-such-object.pdf"))
}

func TestMockStore_SizeFallsBackToBodyLength(t *testing.T) {
	store := NewMockStore()

	result, err := store.Upload(context.Background(), UploadInput{
		Filename: "cv.pdf",
		MimeType: "application/pdf",
		Body:     strings.NewReader("123456"),
	})
	require.NoError(t, err)

	files, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, result.Path, files[0].Path)
	assert.Equal(t, int64(6), files[0].SizeBytes)
}

func TestMockStore_IsAlwaysHealthy(t *testing.T) {
	store := NewMockStore()

	assert.True(t, store.IsHealthy(context.Background()))
	assert.Equal(t, "mock", store.Name())
}

func TestNewStore_SelectsMockWithoutCredentials(t *testing.T) {
	cfg := testConfig()

	store, err := NewStore(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", store.Name())
}

func TestNewStore_SelectsSpacesWithCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.AccessKeyID = "key"
	cfg.Storage.AccessKeySecret = "secret"
	cfg.Storage.BucketName = "cv-uploads"
	cfg.Storage.Region = "blr1"

	store, err := NewStore(cfg)
	require.NoError(t, err)
	assert.Equal(t, "spaces", store.Name())
}
