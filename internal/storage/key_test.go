package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean name passes through", in: "resume.pdf", want: "resume.pdf"},
		{name: "spaces replaced", in: "my resume final.pdf", want: "my_resume_final.pdf"},
		{name: "path components stripped", in: "../../etc/passwd", want: "passwd"},
		{name: "unsafe characters replaced", in: "cv (2024)?.pdf", want: "cv_2024_.pdf"},
		{name: "empty name falls back", in: "", want: "upload"},
		{name: "dot falls back", in: ".", want: "upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("my resume.pdf")

	assert.True(t, strings.HasSuffix(key, "my_resume.pdf"))
	assert.NotContains(t, key, ":")
	assert.NotContains(t, key, " ")

	// Keys are unique across calls for the same filename
	assert.NotEqual(t, key, ObjectKey("my resume.pdf"))
}
