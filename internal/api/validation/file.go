package validation

import (
	"fmt"
	"mime"
	"mime/multipart"
	"strings"

	"agenticv-server/pkg/utils"
)

// Friendly names for the allowed MIME types, used in error messages
var mimeLabels = map[string]string{
	"application/pdf":    "PDF",
	"application/msword": "DOC",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "DOCX",
}

// ValidateCVFile checks the browser-reported MIME type against the allow-list
// and the file size against the ceiling. The declared Content-Type is
// trusted; file bytes are not sniffed.
func ValidateCVFile(header *multipart.FileHeader, maxSize int64, allowed []string) error {
	if header.Size > maxSize {
		return utils.NewPayloadTooLargeError(fmt.Sprintf(
			"file is %.2f MB; the limit is %d MB",
			float64(header.Size)/(1024*1024),
			maxSize/(1024*1024),
		))
	}

	contentType := header.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	if !utils.Contains(allowed, contentType) {
		return utils.NewUnsupportedMediaError(fmt.Sprintf(
			"file type %q is not supported; supported formats are %s",
			contentType,
			supportedFormats(allowed),
		))
	}

	return nil
}

func supportedFormats(allowed []string) string {
	labels := make([]string, 0, len(allowed))
	for _, m := range allowed {
		if label, ok := mimeLabels[m]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, m)
		}
	}
	return strings.Join(labels, ", ")
}
