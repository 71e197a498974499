package models

import "time"

// UploadedFile describes a CV file that has been stored in the uploads bucket
type UploadedFile struct {
	Name        string    `json:"name"`
	SizeBytes   int64     `json:"size_bytes"`
	MimeType    string    `json:"mime_type"`
	StorageURL  string    `json:"storage_url"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UploadResponse represents the response from a CV upload request
type UploadResponse struct {
	Success   bool          `json:"success"`
	File      *UploadedFile `json:"file,omitempty"`
	RequestID string        `json:"request_id"`
	Timestamp time.Time     `json:"timestamp"`
}

// FileInfo describes a stored object returned by list operations
type FileInfo struct {
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// FileListResponse represents the response from a list request
type FileListResponse struct {
	Success bool       `json:"success"`
	Files   []FileInfo `json:"files"`
	Count   int        `json:"count"`
}
