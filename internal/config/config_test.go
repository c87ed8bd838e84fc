package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8000", cfg.AppAddr)
	assert.Equal(t, 15*time.Second, cfg.AppReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.AppWriteTimeout)
	assert.Greater(t, cfg.AppWriteTimeout, cfg.AppRequestTimeout)
	assert.False(t, cfg.AppTrustProxy)
	assert.Equal(t, 10*time.Second, cfg.AppShutdownTimeout)
	assert.Equal(t, "assignments.db", cfg.DBPath)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "uploaded_files", cfg.UploadDir)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.Equal(t, time.Minute, cfg.AuthRateWindow)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("DB_PATH", "/var/lib/classtrack/db.sqlite")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "/var/lib/classtrack/db.sqlite", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWTSecret:      "s",
			AccessTokenTTL: time.Minute,
			BcryptCost:     10,
			UploadDir:      "u",
			UploadMaxBytes: 1,
			AuthRateLimit:  1,
			AuthRateWindow: time.Second,
			LogFormat:      "text",
			LogLevel:       "info",
		}
	}

	tests := []struct {
		mutate  func(c *Config)
		name    string
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero ttl", mutate: func(c *Config) { c.AccessTokenTTL = 0 }, wantErr: "ACCESS_TOKEN_TTL"},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.BcryptCost = 2 }, wantErr: "BCRYPT_COST"},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.BcryptCost = 40 }, wantErr: "BCRYPT_COST"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "pretty" }, wantErr: "LOG_FORMAT"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "LOG_LEVEL"},
		{
			name: "write timeout shorter than request timeout",
			mutate: func(c *Config) {
				c.AppRequestTimeout = 30 * time.Second
				c.AppWriteTimeout = 15 * time.Second
			},
			wantErr: "APP_WRITE_TIMEOUT",
		},
		{
			name: "write timeout equal to request timeout",
			mutate: func(c *Config) {
				c.AppRequestTimeout = 30 * time.Second
				c.AppWriteTimeout = 30 * time.Second
			},
			wantErr: "APP_WRITE_TIMEOUT",
		},
		{
			name: "write timeout longer than request timeout",
			mutate: func(c *Config) {
				c.AppRequestTimeout = 30 * time.Second
				c.AppWriteTimeout = time.Minute
			},
		},
		{name: "no upload dir", mutate: func(c *Config) { c.UploadDir = "" }, wantErr: "UPLOAD_DIR"},
		{name: "zero rate", mutate: func(c *Config) { c.AuthRateLimit = 0 }, wantErr: "AUTH_RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	NewLogger(nil, &buf).Info("text format")
	assert.Contains(t, buf.String(), "msg=\"text format\"")
}
