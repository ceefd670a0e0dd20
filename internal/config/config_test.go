package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "S3_ACCESS_KEY", "S3_SECRET_KEY", "SETTINGS_SECRET", "MAX_UPLOAD_MB", "ENVIRONMENT", "TELEGRAM_API_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.telegram.org", cfg.TelegramAPIURL)
	assert.Equal(t, 10*1024*1024, cfg.MaxUploadBytes())
	assert.False(t, cfg.BackupsEnabled())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("S3_ACCESS_KEY", "access")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("BULK_LIMIT", "25")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.BackupsEnabled())
	assert.True(t, cfg.S3UseSSL)
	assert.Equal(t, 25, cfg.BulkLimit)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("S3_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.False(t, cfg.S3UseSSL)
}

func TestEncryptionSecret(t *testing.T) {
	cfg := &Config{JWTSecret: "jwt"}
	assert.Equal(t, "jwt", cfg.EncryptionSecret())

	cfg.SettingsSecret = "settings"
	assert.Equal(t, "settings", cfg.EncryptionSecret())
}
