package validation

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenticv-server/pkg/utils"
)

var allowedMIMEs = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

const maxSize = 10 * 1024 * 1024

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{contentType},
		},
	}
}

func TestValidateCVFile_AcceptsAllowedTypes(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
	}{
		{name: "pdf", contentType: "application/pdf"},
		{name: "doc", contentType: "application/msword"},
		{name: "docx", contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "pdf with charset parameter", contentType: "application/pdf; charset=binary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCVFile(fileHeader("cv.pdf", tt.contentType, 1024), maxSize, allowedMIMEs)
			assert.NoError(t, err)
		})
	}
}

func TestValidateCVFile_RejectsOversizedFile(t *testing.T) {
	// 15 MB against a 10 MB ceiling
	err := ValidateCVFile(fileHeader("cv.pdf", "application/pdf", 15*1024*1024), maxSize, allowedMIMEs)

	require.Error(t, err)
	customErr, ok := err.(*utils.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, customErr.Code)

	// The message names both the actual size and the limit in MB
	assert.Contains(t, customErr.Detail, "15.00 MB")
	assert.Contains(t, customErr.Detail, "10 MB")
}

func TestValidateCVFile_AcceptsFileAtExactLimit(t *testing.T) {
	err := ValidateCVFile(fileHeader("cv.pdf", "application/pdf", maxSize), maxSize, allowedMIMEs)
	assert.NoError(t, err)
}

func TestValidateCVFile_RejectsUnsupportedType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
	}{
		{name: "plain text", contentType: "text/plain"},
		{name: "image", contentType: "image/png"},
		{name: "empty content type", contentType: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCVFile(fileHeader("cv.txt", tt.contentType, 1024), maxSize, allowedMIMEs)

			require.Error(t, err)
			customErr, ok := err.(*utils.CustomError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnsupportedMediaType, customErr.Code)

			// The message names the supported formats
			assert.Contains(t, customErr.Detail, "PDF, DOC, DOCX")
		})
	}
}

func TestValidateCVFile_SizeCheckedBeforeType(t *testing.T) {
	// An oversized file of the wrong type reports the size problem first
	err := ValidateCVFile(fileHeader("huge.txt", "text/plain", 50*1024*1024), maxSize, allowedMIMEs)

	require.Error(t, err)
	customErr, ok := err.(*utils.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, customErr.Code)
}
