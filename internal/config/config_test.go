package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("DB_QUERY_TIMEOUT", "")
	t.Setenv("MAX_UPLOAD_SIZE", "")
	t.Setenv("ALLOWED_MIME_TYPES", "")

	cfg := Load()

	assert.Equal(t, "imagenes", cfg.GetStorageBucket())
	assert.Equal(t, 5*time.Second, cfg.GetDBQueryTimeout())
	assert.Equal(t, int64(10<<20), cfg.GetMaxUploadSize())
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/gif", "image/webp"}, cfg.GetAllowedMimeTypes())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://owndesign.example/")
	t.Setenv("DB_QUERY_TIMEOUT", "3")
	t.Setenv("DB_EXECUTE_TIMEOUT", "750ms")
	t.Setenv("MAX_UPLOAD_SIZE", "2048")
	t.Setenv("ALLOWED_MIME_TYPES", " image/png , ,image/jpeg")

	cfg := Load()

	assert.Equal(t, "https://owndesign.example", cfg.GetAppBaseURL(), "trailing slash is trimmed")
	assert.Equal(t, 3*time.Second, cfg.GetDBQueryTimeout())
	assert.Equal(t, 750*time.Millisecond, cfg.GetDBExecuteTimeout())
	assert.Equal(t, int64(2048), cfg.GetMaxUploadSize())
	assert.Equal(t, []string{"image/png", "image/jpeg"}, cfg.GetAllowedMimeTypes())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_QUERY_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_SIZE", "-5")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.GetDBQueryTimeout())
	assert.Equal(t, int64(10<<20), cfg.GetMaxUploadSize())
}
