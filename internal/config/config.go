package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"agenticv-server/internal/logging/types"
)

// Default public CORS relay endpoints tried, in order, when a direct
// cross-origin request fails at the transport level.
var defaultCORSProxies = []string{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?",
	"https://cors-anywhere.herokuapp.com/",
}

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		RelayPort    int           `yaml:"relay_port"`
		Host         string        `yaml:"host"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
	} `yaml:"server"`

	Storage struct {
		BucketURL       string   `yaml:"bucket_url"`
		CDNEndpoint     string   `yaml:"cdn_endpoint"`
		AccessKeyID     string   `yaml:"access_key_id"`
		AccessKeySecret string   `yaml:"access_key_secret"`
		Region          string   `yaml:"region"`
		BucketName      string   `yaml:"bucket_name"`
		MaxFileSize     int64    `yaml:"max_file_size"`
		AllowedMIMEs    []string `yaml:"allowed_mime_types"`
	} `yaml:"storage"`

	JobDescription struct {
		MinLength int           `yaml:"min_length"`
		DraftTTL  time.Duration `yaml:"draft_ttl"`
	} `yaml:"job_description"`

	Webhook struct {
		URL        string        `yaml:"url"`
		RelayURL   string        `yaml:"relay_url"`
		ForceRelay bool          `yaml:"force_relay"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"webhook"`

	CORS struct {
		Origin  string   `yaml:"origin"`
		Proxies []string `yaml:"proxies"`
	} `yaml:"cors"`

	Firecrawl struct {
		APIKey string `yaml:"api_key"`
		APIURL string `yaml:"api_url"`
	} `yaml:"firecrawl"`

	Redis struct {
		URL      string        `yaml:"url"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"redis"`

	RateLimit struct {
		RequestsPerMinute int `yaml:"requests_per_minute"`
		Burst             int `yaml:"burst"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level    string                `yaml:"level"`
		Adapters []types.AdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR
// syntax. Unset variables expand to the empty string, so a value that was
// never provided reads as absent rather than as the literal placeholder.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.RelayPort = 8787
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Storage.Region = "blr1"
	config.Storage.BucketName = "cv-uploads"
	config.Storage.MaxFileSize = 10 * 1024 * 1024
	config.Storage.AllowedMIMEs = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}

	config.JobDescription.MinLength = 100
	config.JobDescription.DraftTTL = 24 * time.Hour

	config.Webhook.Timeout = 120 * time.Second

	config.CORS.Origin = "*"
	config.CORS.Proxies = append([]string(nil), defaultCORSProxies...)

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.RateLimit.RequestsPerMinute = 60
	config.RateLimit.Burst = 5

	config.Logging.Level = "info"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if relayPort := os.Getenv("RELAY_PORT"); relayPort != "" {
		if p, err := strconv.Atoi(relayPort); err == nil {
			c.Server.RelayPort = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	// Object storage configuration
	if bucketURL := os.Getenv("BUCKET_URL"); bucketURL != "" {
		c.Storage.BucketURL = bucketURL
	}

	if cdnEndpoint := os.Getenv("BUCKET_CDN_ENDPOINT"); cdnEndpoint != "" {
		c.Storage.CDNEndpoint = cdnEndpoint
	}

	if accessKeyID := os.Getenv("BUCKET_ACCESS_KEY_ID"); accessKeyID != "" {
		c.Storage.AccessKeyID = accessKeyID
	}

	if accessKeySecret := os.Getenv("BUCKET_ACCESS_KEY_SECRET"); accessKeySecret != "" {
		c.Storage.AccessKeySecret = accessKeySecret
	}

	if region := os.Getenv("BUCKET_REGION"); region != "" {
		c.Storage.Region = region
	}

	if bucketName := os.Getenv("BUCKET_NAME"); bucketName != "" {
		c.Storage.BucketName = bucketName
	}

	if maxSize := os.Getenv("MAX_FILE_SIZE"); maxSize != "" {
		if size, err := strconv.ParseInt(maxSize, 10, 64); err == nil {
			c.Storage.MaxFileSize = size
		}
	}

	// Job description configuration
	if minLength := os.Getenv("JD_MIN_LENGTH"); minLength != "" {
		if n, err := strconv.Atoi(minLength); err == nil {
			c.JobDescription.MinLength = n
		}
	}

	if draftTTL := os.Getenv("JD_DRAFT_TTL"); draftTTL != "" {
		if ttl, err := time.ParseDuration(draftTTL); err == nil {
			c.JobDescription.DraftTTL = ttl
		}
	}

	// Webhook configuration
	if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
		c.Webhook.URL = webhookURL
	}

	if relayURL := os.Getenv("RELAY_URL"); relayURL != "" {
		c.Webhook.RelayURL = relayURL
	}

	if forceRelay := os.Getenv("FORCE_RELAY"); forceRelay != "" {
		c.Webhook.ForceRelay = forceRelay == "true" || forceRelay == "1"
	}

	if timeout := os.Getenv("WEBHOOK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Webhook.Timeout = d
		}
	}

	// CORS configuration
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		c.CORS.Origin = origin
	}

	if proxies := os.Getenv("CORS_PROXIES"); proxies != "" {
		var parsed []string
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parsed = append(parsed, p)
			}
		}
		c.CORS.Proxies = parsed
	}

	// Firecrawl configuration
	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	// Redis configuration
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	// Rate limit configuration
	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = n
		}
	}
}

// Validate rejects configuration the service cannot safely run with. A
// malformed webhook URL is an error here rather than something to repair at
// request time.
func (c *Config) Validate() error {
	if c.Webhook.URL != "" {
		if err := validateHTTPURL(c.Webhook.URL); err != nil {
			return fmt.Errorf("invalid webhook URL %q: %w", c.Webhook.URL, err)
		}
	}

	if c.Webhook.RelayURL != "" {
		if err := validateHTTPURL(c.Webhook.RelayURL); err != nil {
			return fmt.Errorf("invalid relay URL %q: %w", c.Webhook.RelayURL, err)
		}
	}

	if c.Webhook.ForceRelay && c.Webhook.RelayURL == "" {
		return fmt.Errorf("FORCE_RELAY is set but no relay URL is configured")
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}

	if c.JobDescription.MinLength <= 0 {
		return fmt.Errorf("job description minimum length must be positive")
	}

	return nil
}

// StorageConfigured reports whether real object storage credentials are
// present. When false the storage factory selects the in-memory mock store.
func (c *Config) StorageConfigured() bool {
	return c.Storage.AccessKeyID != "" &&
		c.Storage.AccessKeySecret != "" &&
		c.Storage.BucketName != ""
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
