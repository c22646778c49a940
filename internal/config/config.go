package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes configuration values to the rest of the application.
// Components depend on this interface so tests can substitute their own values.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string

	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration

	GetStorageDir() string
	GetStorageBucket() string
	GetMaxUploadSize() int64
	GetAllowedMimeTypes() []string

	GetEmailProvider() string
	GetEmailSender() string
	GetEmailAPIKey() string

	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetTracingZipkinURL() string
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr       string
	AppBaseURL    string
	SessionSecret string

	DBUrl            string
	DBNs             string
	DBDb             string
	DBUser           string
	DBPass           string
	DBQueryTimeout   time.Duration
	DBExecuteTimeout time.Duration

	StorageDir       string
	StorageBucket    string
	MaxUploadSize    int64
	AllowedMimeTypes []string

	EmailProvider string
	EmailSender   string
	EmailAPIKey   string

	TracingEnabled     bool
	TracingServiceName string
	TracingZipkinURL   string
}

var _ Provider = (*Config)(nil)

const (
	defaultAppAddr          = ":8080"
	defaultStorageDir       = "data/storage"
	defaultStorageBucket    = "imagenes"
	defaultMaxUploadSize    = 10 << 20
	defaultQueryTimeout     = 5 * time.Second
	defaultExecuteTimeout   = 10 * time.Second
	defaultAllowedMimeTypes = "image/jpeg,image/png,image/gif,image/webp"
)

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Load()
	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
	}
	return cfg
}

// Load reads the environment without touching .env files or validating
// required values. Tests use it after t.Setenv.
func Load() *Config {
	return &Config{
		AppAddr:       getEnv("APP_ADDR", defaultAppAddr),
		AppBaseURL:    strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production"),

		DBUrl:            os.Getenv("SURREAL_URL"),
		DBUser:           os.Getenv("SURREAL_USER"),
		DBPass:           os.Getenv("SURREAL_PASS"),
		DBNs:             os.Getenv("SURREAL_NS"),
		DBDb:             os.Getenv("SURREAL_DB"),
		DBQueryTimeout:   getDuration("DB_QUERY_TIMEOUT", defaultQueryTimeout),
		DBExecuteTimeout: getDuration("DB_EXECUTE_TIMEOUT", defaultExecuteTimeout),

		StorageDir:       getEnv("STORAGE_DIR", defaultStorageDir),
		StorageBucket:    getEnv("STORAGE_BUCKET", defaultStorageBucket),
		MaxUploadSize:    getInt64("MAX_UPLOAD_SIZE", defaultMaxUploadSize),
		AllowedMimeTypes: splitList(getEnv("ALLOWED_MIME_TYPES", defaultAllowedMimeTypes)),

		EmailProvider: getEnv("EMAIL_PROVIDER", "log"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),

		TracingEnabled:     getBool("PUBSUB_TRACING_ENABLED", false),
		TracingServiceName: getEnv("PUBSUB_TRACING_SERVICE_NAME", "owndesign"),
		TracingZipkinURL:   getEnv("PUBSUB_TRACING_ZIPKIN_URL", "http://localhost:9411/api/v2/spans"),
	}
}

func (c *Config) GetAppAddr() string       { return c.AppAddr }
func (c *Config) GetAppBaseURL() string    { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }

func (c *Config) GetDBURL() string                   { return c.DBUrl }
func (c *Config) GetDBNs() string                    { return c.DBNs }
func (c *Config) GetDBDb() string                    { return c.DBDb }
func (c *Config) GetDBUser() string                  { return c.DBUser }
func (c *Config) GetDBPass() string                  { return c.DBPass }
func (c *Config) GetDBQueryTimeout() time.Duration   { return c.DBQueryTimeout }
func (c *Config) GetDBExecuteTimeout() time.Duration { return c.DBExecuteTimeout }

func (c *Config) GetStorageDir() string         { return c.StorageDir }
func (c *Config) GetStorageBucket() string      { return c.StorageBucket }
func (c *Config) GetMaxUploadSize() int64       { return c.MaxUploadSize }
func (c *Config) GetAllowedMimeTypes() []string { return c.AllowedMimeTypes }

func (c *Config) GetEmailProvider() string { return c.EmailProvider }
func (c *Config) GetEmailSender() string   { return c.EmailSender }
func (c *Config) GetEmailAPIKey() string   { return c.EmailAPIKey }

func (c *Config) GetTracingEnabled() bool       { return c.TracingEnabled }
func (c *Config) GetTracingServiceName() string { return c.TracingServiceName }
func (c *Config) GetTracingZipkinURL() string   { return c.TracingZipkinURL }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("5s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("invalid duration for %s: %q, using %s", key, raw, fallback)
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("invalid integer for %s: %q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
