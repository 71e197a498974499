package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "sub-second uses native format", in: 250 * time.Millisecond, want: "250ms"},
		{name: "seconds", in: 2500 * time.Millisecond, want: "2.50s"},
		{name: "minutes", in: 90 * time.Second, want: "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestContains(t *testing.T) {
	slice := []string{"application/pdf", "application/msword"}

	assert.True(t, Contains(slice, "application/pdf"))
	assert.False(t, Contains(slice, "text/plain"))
	assert.False(t, Contains(nil, "application/pdf"))
}

func TestGetStringOrDefault(t *testing.T) {
	assert.Equal(t, "configs/config.yaml", GetStringOrDefault("", "configs/config.yaml"))
	assert.Equal(t, "/etc/agenticv.yaml", GetStringOrDefault("/etc/agenticv.yaml", "configs/config.yaml"))
}
