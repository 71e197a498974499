package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
)

const mockBaseURL = "https://cv-uploads.mock.local"

type mockObject struct {
	size       int64
	mimeType   string
	uploadedAt time.Time
}

// MockStore is the in-memory fallback used when storage credentials are
// absent. Operations succeed deterministically instead of failing, so the
// rest of the app behaves exactly as it would against the real bucket.
type MockStore struct {
	mu      sync.RWMutex
	objects map[string]mockObject
	logger  logging.Logger
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{
		objects: make(map[string]mockObject),
		logger:  logging.GetGlobalLogger(),
	}
}

// Upload records the object and returns a deterministic mock URL
func (m *MockStore) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	objectKey := ObjectKey(in.Filename)

	// Drain the body so upstream io behaves as with a real backend
	size := in.Size
	if n, err := io.Copy(io.Discard, in.Body); err == nil && size == 0 {
		size = n
	}

	m.mu.Lock()
	m.objects[objectKey] = mockObject{
		size:       size,
		mimeType:   in.MimeType,
		uploadedAt: time.Now(),
	}
	m.mu.Unlock()

	m.logger.Info("Mock storage upload", map[string]interface{}{
		"object_key": objectKey,
		"size_bytes": size,
	})

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s", mockBaseURL, objectKey),
		Path:     objectKey,
		Filename: SanitizeFilename(in.Filename),
		Metadata: map[string]string{
			"bucket": "mock",
			"mime":   in.MimeType,
		},
	}, nil
}

// Delete removes the object; deleting a missing key is not an error, matching
// object-storage semantics
func (m *MockStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	delete(m.objects, path)
	m.mu.Unlock()
	return nil
}

// List returns stored objects under the prefix, sorted by key
func (m *MockStore) List(ctx context.Context, prefix string) ([]models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]models.FileInfo, 0, len(m.objects))
	for key, obj := range m.objects {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		files = append(files, models.FileInfo{
			Path:         key,
			SizeBytes:    obj.size,
			LastModified: obj.uploadedAt,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// IsHealthy always reports healthy
func (m *MockStore) IsHealthy(ctx context.Context) bool {
	return true
}

// Name identifies the backing implementation
func (m *MockStore) Name() string {
	return "mock"
}
