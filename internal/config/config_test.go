package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, 100, cfg.JobDescription.MinLength)
	assert.Equal(t, 24*time.Hour, cfg.JobDescription.DraftTTL)
	assert.Equal(t, 120*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, defaultCORSProxies, cfg.CORS.Proxies)
	assert.Contains(t, cfg.Storage.AllowedMIMEs, "application/pdf")
	assert.False(t, cfg.StorageConfigured())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_FILE_SIZE", "5242880")
	t.Setenv("JD_MIN_LENGTH", "250")
	t.Setenv("WEBHOOK_URL", "https://automation.example.com/webhook/analyze")
	t.Setenv("CORS_PROXIES", "https://relay-a.test/?url=, https://relay-b.test/")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, int64(5242880), cfg.Storage.MaxFileSize)
	assert.Equal(t, 250, cfg.JobDescription.MinLength)
	assert.Equal(t, "https://automation.example.com/webhook/analyze", cfg.Webhook.URL)
	assert.Equal(t, []string{"https://relay-a.test/?url=", "https://relay-b.test/"}, cfg.CORS.Proxies)
}

func TestLoadConfig_YAMLFileWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_BUCKET_NAME", "expanded-bucket")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7070
storage:
  bucket_name: "${TEST_BUCKET_NAME}"
job_description:
  min_length: 150
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "expanded-bucket", cfg.Storage.BucketName)
	assert.Equal(t, 150, cfg.JobDescription.MinLength)
}

func TestLoadConfig_ShippedConfigBootsWithBareEnvironment(t *testing.T) {
	// The checked-in config file must load with nothing exported: unset
	// placeholders read as absent values, not as literal "${VAR}" strings.
	for _, name := range []string{
		"BUCKET_URL", "BUCKET_CDN_ENDPOINT", "BUCKET_ACCESS_KEY_ID",
		"BUCKET_ACCESS_KEY_SECRET", "WEBHOOK_URL", "RELAY_URL",
		"FIRECRAWL_API_KEY", "REDIS_URL",
	} {
		t.Setenv(name, "")
	}

	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Webhook.URL)
	assert.Empty(t, cfg.Storage.AccessKeyID)
	assert.Empty(t, cfg.Storage.AccessKeySecret)
	assert.False(t, cfg.StorageConfigured(), "missing credentials must select the mock store")
	assert.Equal(t, "cv-uploads", cfg.Storage.BucketName)
	assert.Equal(t, 100, cfg.JobDescription.MinLength)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("EXPAND_SET", "value")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "set braced variable", in: "url: ${EXPAND_SET}", want: "url: value"},
		{name: "unset braced variable is empty", in: "url: ${EXPAND_UNSET_VAR}", want: "url: "},
		{name: "set bare variable", in: "url: $EXPAND_SET", want: "url: value"},
		{name: "unset bare variable is empty", in: "url: $EXPAND_UNSET_VAR", want: "url: "},
		{name: "no variables", in: "plain text", want: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvVars(tt.in))
		})
	}
}

func TestLoadConfig_RejectsMalformedWebhookURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "missing scheme", url: "automation.example.com/webhook"},
		{name: "wrong scheme", url: "ftp://automation.example.com/webhook"},
		{name: "scheme only", url: "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WEBHOOK_URL", tt.url)

			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ForceRelayRequiresRelayURL(t *testing.T) {
	t.Setenv("FORCE_RELAY", "true")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestConfig_StorageConfigured(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.StorageConfigured())

	cfg.Storage.AccessKeyID = "key"
	cfg.Storage.AccessKeySecret = "secret"
	assert.False(t, cfg.StorageConfigured(), "bucket name is still missing")

	cfg.Storage.BucketName = "cv-uploads"
	assert.True(t, cfg.StorageConfigured())
}
