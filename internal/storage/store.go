package storage

import (
	"context"
	"io"

	"agenticv-server/pkg/models"
)

// UploadInput carries an incoming file into a Store
type UploadInput struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// UploadResult is the outcome of a successful upload
type UploadResult struct {
	URL      string            `json:"url"`
	Path     string            `json:"path"`
	Filename string            `json:"filename"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store abstracts the CV uploads bucket. The real implementation talks to
// DigitalOcean Spaces; the mock implementation keeps objects in memory and is
// selected when storage credentials are absent.
type Store interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]models.FileInfo, error)
	IsHealthy(ctx context.Context) bool
	Name() string
}
