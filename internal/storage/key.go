package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey builds a unique storage key for an uploaded file: an ISO-8601
// timestamp, a random suffix, and the sanitized original filename. Colons are
// replaced so the key stays URL-friendly.
func ObjectKey(filename string) string {
	ts := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s-%s-%s", ts, suffix, SanitizeFilename(filename))
}

// SanitizeFilename strips path components and replaces characters that are
// unsafe in object keys or URLs
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeKeyChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
